package handmorph

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gekko3d/handmorph/gesture"
	"github.com/gekko3d/handmorph/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tphakala/simd/f32"
	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleBuffer holds three parallel xyz/rgb arrays of length 3N. They are
// allocated once and never resized.
type ParticleBuffer struct {
	Current []float32
	Target  []float32
	Color   []float32

	dirty bool
}

func newParticleBuffer(n int) ParticleBuffer {
	return ParticleBuffer{
		Current: make([]float32, 3*n),
		Target:  make([]float32, 3*n),
		Color:   make([]float32, 3*n),
		dirty:   true,
	}
}

// Len returns the particle count.
func (b *ParticleBuffer) Len() int { return len(b.Current) / 3 }

// Dirty reports whether the buffer changed since the last MarkClean.
func (b *ParticleBuffer) Dirty() bool { return b.dirty }
func (b *ParticleBuffer) MarkClean()  { b.dirty = false }

// ShapeChange is delivered to observers after every real transition.
type ShapeChange struct {
	From, To shape.ID
	At       time.Time
}

type ShapeObserver func(ShapeChange)

// MorphEngine owns the particle buffer and all morph state. It is driven from
// a single goroutine: the frame loop.
type MorphEngine struct {
	cfg     Config
	sampler *shape.Sampler
	logger  Logger

	buf    ParticleBuffer
	scaled []float32 // targets times the explosion factor

	shape       shape.ID
	flashing    bool
	flashUntil  time.Time
	transitions int

	// latest classifier values and their smoothed followers
	rawCenter r2.Vec
	rawPinch  float64
	center    r2.Vec
	pinch     float64

	pitch, yaw float32
	tint       colorful.Color

	observers []ShapeObserver
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// NewMorphEngine allocates the buffer with particles scattered through a cube
// and targets on cfg.Shape. textPoints feeds the text shape and may be nil
// unless the session starts on text.
func NewMorphEngine(cfg Config, textPoints []float32, logger Logger) (*MorphEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}

	seed1, seed2 := cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15
	if cfg.Seed == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed1, seed2))

	e := &MorphEngine{
		cfg:     cfg,
		sampler: shape.NewSampler(rng, textPoints),
		logger:  logger,
		buf:     newParticleBuffer(cfg.ParticleCount),
		scaled:  make([]float32, 3*cfg.ParticleCount),
		shape:   cfg.Shape,
		tint:    white,
	}
	for i := range e.buf.Current {
		e.buf.Current[i] = (rng.Float32() - 0.5) * cfg.InitialSpread
		e.buf.Color[i] = 1
	}
	// targets are live from the first tick; the start shape is not a
	// transition, so no flash and no observers
	if err := e.sampler.SampleInto(cfg.Shape, e.buf.Target); err != nil {
		return nil, fmt.Errorf("start shape: %w", err)
	}
	return e, nil
}

// OnShapeChange registers fn to run after every real transition.
func (e *MorphEngine) OnShapeChange(fn ShapeObserver) {
	e.observers = append(e.observers, fn)
}

// SetTargetShape resamples the targets for id and starts the transition
// flash. Requesting the current shape does nothing. An unknown id returns
// an error and leaves the engine untouched.
func (e *MorphEngine) SetTargetShape(id shape.ID, now time.Time) error {
	if id == e.shape {
		return nil
	}
	if err := e.sampler.SampleInto(id, e.buf.Target); err != nil {
		return fmt.Errorf("set target shape: %w", err)
	}

	change := ShapeChange{From: e.shape, To: id, At: now}
	e.shape = id
	e.flashing = true
	e.flashUntil = now.Add(e.cfg.FlashDuration)
	e.tint = white
	e.transitions++
	e.buf.dirty = true

	e.logger.Infof("shape %s -> %s", change.From, change.To)
	for _, fn := range e.observers {
		fn(change)
	}
	return nil
}

// SetInput stores the latest raw hand centre and pinch magnitude. Advance
// follows them smoothly.
func (e *MorphEngine) SetInput(center r2.Vec, pinch float64) {
	e.rawCenter = center
	e.rawPinch = max(0, pinch)
}

// ApplySignal feeds one classifier result into the engine. Without a hand the
// inputs fall back to neutral; the current shape is kept.
func (e *MorphEngine) ApplySignal(sig gesture.Signal, now time.Time) error {
	if !sig.Detected {
		e.SetInput(r2.Vec{}, 0)
		return nil
	}
	e.SetInput(sig.Center, sig.Pinch)
	if id, ok := sig.Gesture.Shape(); ok {
		return e.SetTargetShape(id, now)
	}
	return nil
}

// Advance runs one tick.
func (e *MorphEngine) Advance(now time.Time) {
	if e.flashing && !now.Before(e.flashUntil) {
		e.flashing = false
	}

	k := e.cfg.HandSmoothing
	e.center = r2.Add(e.center, r2.Scale(k, r2.Sub(e.rawCenter, e.center)))
	e.pinch += (e.rawPinch - e.pinch) * k

	e.driftColor()

	speed := e.cfg.MorphSpeed
	f32.Scale(e.scaled, e.buf.Target, e.ExplosionFactor())
	cur := e.buf.Current
	for i, t := range e.scaled {
		cur[i] += (t - cur[i]) * speed
	}

	e.yaw += e.cfg.SpinRate + float32(e.center.X)*e.cfg.SteerYaw
	e.pitch = float32(e.center.Y) * e.cfg.SteerPitch

	e.buf.dirty = true
}

// ExplosionFactor scales the targets with the smoothed pinch: a strong
// heartbeat on the heart, a faint breathing everywhere else.
func (e *MorphEngine) ExplosionFactor() float32 {
	gain := e.cfg.BreathPulse
	if e.shape == shape.Heart {
		gain = e.cfg.HeartPulse
	}
	return 1 + float32(e.pinch)*gain
}

// Model is the rotation of the cloud, pitch applied after yaw.
func (e *MorphEngine) Model() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(e.pitch).Mul4(mgl32.HomogRotate3DY(e.yaw))
}

func (e *MorphEngine) Buffer() *ParticleBuffer { return &e.buf }
func (e *MorphEngine) Config() Config           { return e.cfg }
func (e *MorphEngine) Shape() shape.ID          { return e.shape }
func (e *MorphEngine) Flashing() bool           { return e.flashing }
func (e *MorphEngine) Transitions() int         { return e.transitions }
func (e *MorphEngine) Center() r2.Vec           { return e.center }
func (e *MorphEngine) Pinch() float64           { return e.pinch }
func (e *MorphEngine) Tint() colorful.Color     { return e.tint }
func (e *MorphEngine) Rotation() (pitch, yaw float32) {
	return e.pitch, e.yaw
}
