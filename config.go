package handmorph

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gekko3d/handmorph/shape"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is fixed for the lifetime of an engine.
type Config struct {
	ParticleCount int
	ParticleSize  float32 // point size handed to the renderer
	InitialSpread float32 // side of the cube particles start in

	MorphSpeed    float32 // fraction of the remaining distance covered per tick
	HandSmoothing float64 // same, for hand position and pinch
	ColorBlend    float64 // same, for the tint toward the hand hue

	FlashDuration time.Duration

	SpinRate   float32 // yaw added every tick
	SteerYaw   float32 // yaw per unit of smoothed hand x
	SteerPitch float32 // pitch per unit of smoothed hand y

	HeartPulse  float32 // explosion gain on pinch while the heart is shown
	BreathPulse float32 // explosion gain for every other shape

	// HueSpan is the hand x range mapped onto one full turn of the hue wheel.
	HueSpan float64

	Text  string   // text rendered for the text shape, must not be empty
	Shape shape.ID // shape the session starts in
	Seed  uint64   // RNG seed, 0 picks one at random
}

func DefaultConfig() Config {
	return Config{
		ParticleCount: 6000,
		ParticleSize:  0.18,
		InitialSpread: 50,
		MorphSpeed:    0.12,
		HandSmoothing: 0.15,
		ColorBlend:    0.08,
		FlashDuration: 250 * time.Millisecond,
		SpinRate:      0.002,
		SteerYaw:      0.01,
		SteerPitch:    0.05,
		HeartPulse:    1.5,
		BreathPulse:   0.2,
		HueSpan:       30,
		Text:          "HELLO",
		Shape:         shape.Sphere,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ParticleCount <= 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.ParticleCount)
	case c.MorphSpeed <= 0 || c.MorphSpeed > 1:
		return fmt.Errorf("%w: morph speed %v not in (0,1]", ErrInvalidConfig, c.MorphSpeed)
	case c.HandSmoothing <= 0 || c.HandSmoothing > 1:
		return fmt.Errorf("%w: hand smoothing %v not in (0,1]", ErrInvalidConfig, c.HandSmoothing)
	case c.ColorBlend < 0 || c.ColorBlend > 1:
		return fmt.Errorf("%w: color blend %v not in [0,1]", ErrInvalidConfig, c.ColorBlend)
	case c.FlashDuration < 0:
		return fmt.Errorf("%w: negative flash duration", ErrInvalidConfig)
	case c.HueSpan <= 0:
		return fmt.Errorf("%w: hue span %v", ErrInvalidConfig, c.HueSpan)
	case strings.TrimSpace(c.Text) == "":
		return fmt.Errorf("%w: empty text", ErrInvalidConfig)
	case !c.Shape.Valid():
		return fmt.Errorf("%w: start shape %q", ErrInvalidConfig, c.Shape)
	}
	return nil
}
