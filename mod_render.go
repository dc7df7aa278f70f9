package handmorph

import (
	"github.com/gekko3d/handmorph/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is what a renderer receives each tick. Positions and Colors alias
// the engine buffer: xyz and rgb triples, one per particle, valid only for
// the duration of Draw.
type Frame struct {
	Positions []float32
	Colors    []float32
	Model     mgl32.Mat4
	PointSize float32
	Shape     shape.ID
	Flashing  bool
	Number    uint64
}

// Renderer draws a point cloud. Projection, camera and pixel output are
// entirely its business.
type Renderer interface {
	Draw(f *Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame) error

func (fn RendererFunc) Draw(f *Frame) error { return fn(f) }

// RenderModule hands the particle buffer to Renderer whenever it changed.
type RenderModule struct {
	Renderer Renderer
}

type renderTarget struct {
	r     Renderer
	frame Frame
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	if m.Renderer == nil {
		app.Logger().Warnf("render module installed without a renderer")
		return
	}
	cmd.AddResources(&renderTarget{r: m.Renderer})
	cmd.UseSystem(System(renderSystem).InStage(Render))
}

func renderSystem(rt *renderTarget, engine *MorphEngine, t *Time) error {
	buf := engine.Buffer()
	if !buf.Dirty() {
		return nil
	}
	rt.frame = Frame{
		Positions: buf.Current,
		Colors:    buf.Color,
		Model:     engine.Model(),
		PointSize: engine.Config().ParticleSize,
		Shape:     engine.Shape(),
		Flashing:  engine.Flashing(),
		Number:    t.Frame,
	}
	if err := rt.r.Draw(&rt.frame); err != nil {
		return err
	}
	buf.MarkClean()
	return nil
}
