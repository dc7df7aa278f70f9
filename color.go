package handmorph

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	tintSaturation = 1.0
	tintLightness  = 0.6
)

// HandHue maps a hand x position onto the hue wheel in [0,1): the centre of
// the frame is cyan-ish 0.5 and every HueSpan units wrap around once.
func HandHue(x, span float64) float64 {
	h := x/span + 0.5
	return h - math.Floor(h)
}

// driftColor eases the tint toward the hand hue. The tint stays white while
// a transition flash is showing.
func (e *MorphEngine) driftColor() {
	if !e.flashing {
		hue := HandHue(e.center.X, e.cfg.HueSpan)
		target := colorful.Hsl(hue*360, tintSaturation, tintLightness)
		e.tint = e.tint.BlendRgb(target, e.cfg.ColorBlend)
	}

	r, g, b := float32(e.tint.R), float32(e.tint.G), float32(e.tint.B)
	col := e.buf.Color
	for i := 0; i+2 < len(col); i += 3 {
		col[i], col[i+1], col[i+2] = r, g, b
	}
}
