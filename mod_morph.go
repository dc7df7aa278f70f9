package handmorph

import (
	"fmt"

	"github.com/gekko3d/handmorph/glyph"
)

// MorphModule builds the MorphEngine and advances it every frame.
// Engine, when set, is installed as is and Config is ignored.
type MorphModule struct {
	Config Config
	Glyph  glyph.Options
	Engine *MorphEngine
}

func (m MorphModule) Install(app *App, cmd *Commands) {
	engine := m.Engine
	if engine == nil {
		var err error
		engine, err = m.newEngine(app.Logger())
		if err != nil {
			cmd.Fail(fmt.Errorf("morph module: %w", err))
			return
		}
	}
	cmd.AddResources(engine)
	cmd.UseSystem(System(morphSystem).InStage(Update))
	app.Logger().Infof("morph engine: %d particles, shape %s", engine.Buffer().Len(), engine.Shape())
}

// newEngine rasterizes the configured text up front so a missing font or
// surface fails at startup rather than on the first open palm.
func (m MorphModule) newEngine(log Logger) (*MorphEngine, error) {
	cfg := m.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := m.Glyph
	if opts.Width == 0 && opts.Height == 0 {
		opts = glyph.DefaultOptions()
	}
	r, err := glyph.NewRasterizer(opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	text, err := r.Rasterize(cfg.Text)
	if err != nil {
		return nil, err
	}
	log.Debugf("text %q rasterized to %d points", cfg.Text, len(text)/3)
	return NewMorphEngine(cfg, text, log)
}

func morphSystem(engine *MorphEngine, t *Time) {
	engine.Advance(t.Time)
}
