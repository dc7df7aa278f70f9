package handmorph

import (
	"github.com/gekko3d/handmorph/shape"
)

// Cue reacts to a finished shape transition, e.g. with a sound.
type Cue interface {
	Play(to shape.ID)
}

// CueModule plays Cue on every shape change. Install it after MorphModule.
type CueModule struct {
	Cue Cue
}

func (m CueModule) Install(app *App, cmd *Commands) {
	if m.Cue == nil {
		return
	}
	engine, ok := Resource[MorphEngine](app)
	if !ok {
		if app.err != nil {
			return
		}
		panic("CueModule requires MorphModule to be installed first")
	}
	engine.OnShapeChange(func(c ShapeChange) {
		m.Cue.Play(c.To)
	})
}
