package shape

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	SphereRadius = 12
	HeartScale   = 0.8
	PeaceRadius  = 13

	heartDepth  = 4   // z jitter span for the heart
	peaceJitter = 0.8 // line thickness span for the peace symbol
	textDepth   = 2   // z jitter span for the text sheet

	diag = 0.707 // cos(45deg), leg direction of the peace symbol
)

// Sampler produces target buffers for every shape ID.
// It is not safe for concurrent use; it owns a single RNG.
type Sampler struct {
	rng  *rand.Rand
	text []float32
}

// NewSampler returns a sampler drawing from rng. textPoints is the flat xyz
// output of the glyph rasterizer and may be nil when the text shape is unused.
func NewSampler(rng *rand.Rand, textPoints []float32) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng, text: textPoints}
}

// TextPoints returns the number of rasterized text points available.
func (s *Sampler) TextPoints() int { return len(s.text) / 3 }

// Sample returns exactly 3*count coordinates for the given shape.
func (s *Sampler) Sample(id ID, count int) ([]float32, error) {
	if count < 0 {
		return nil, fmt.Errorf("shape: negative particle count %d", count)
	}
	out := make([]float32, 3*count)
	if err := s.SampleInto(id, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SampleInto overwrites dst (length 3N) with N freshly sampled points.
// dst is left untouched when an error is returned.
func (s *Sampler) SampleInto(id ID, dst []float32) error {
	switch id {
	case Sphere:
		s.sphere(dst)
	case Heart:
		s.heart(dst)
	case Peace:
		s.peace(dst)
	case Text:
		if len(s.text) < 3 {
			return ErrNoTextPoints
		}
		s.glyphs(dst)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedShape, string(id))
	}
	return nil
}

// jitter returns a uniform value in [-span/2, span/2).
func (s *Sampler) jitter(span float32) float32 {
	return (s.rng.Float32() - 0.5) * span
}

func (s *Sampler) sphere(dst []float32) {
	for i := 0; i+2 < len(dst); i += 3 {
		theta := 2 * math.Pi * s.rng.Float32()
		phi := math32.Acos(2*s.rng.Float32() - 1)
		sinPhi, cosPhi := math32.Sincos(phi)
		sinTheta, cosTheta := math32.Sincos(theta)
		dst[i] = SphereRadius * sinPhi * cosTheta
		dst[i+1] = SphereRadius * sinPhi * sinTheta
		dst[i+2] = SphereRadius * cosPhi
	}
}

// HeartPoint evaluates the scaled parametric heart curve at t.
func HeartPoint(t float32) (x, y float32) {
	sin := math32.Sin(t)
	x = 16 * sin * sin * sin
	y = 13*math32.Cos(t) - 5*math32.Cos(2*t) - 2*math32.Cos(3*t) - math32.Cos(4*t)
	return x * HeartScale, y * HeartScale
}

func (s *Sampler) heart(dst []float32) {
	for i := 0; i+2 < len(dst); i += 3 {
		x, y := HeartPoint(2 * math.Pi * s.rng.Float32())
		dst[i] = x
		dst[i+1] = y
		dst[i+2] = s.jitter(heartDepth)
	}
}

type peacePart int

const (
	peaceRing peacePart = iota
	peaceStem
	peaceRightLeg
	peaceLeftLeg
)

// peacePoint draws one point of the peace symbol: a ring, a vertical
// diameter and two legs running 45 degrees down from the centre.
func (s *Sampler) peacePoint() (x, y, z float32, part peacePart) {
	pick := s.rng.Float32()
	j := s.jitter(peaceJitter)
	switch {
	case pick < 0.5:
		sin, cos := math32.Sincos(2 * math.Pi * s.rng.Float32())
		return PeaceRadius * cos, PeaceRadius * sin, j, peaceRing
	case pick < 0.7:
		return j, s.rng.Float32()*2*PeaceRadius - PeaceRadius, j, peaceStem
	case pick < 0.85:
		t := s.rng.Float32()
		return t * PeaceRadius * diag, -t * PeaceRadius * diag, j, peaceRightLeg
	default:
		t := s.rng.Float32()
		return -t * PeaceRadius * diag, -t * PeaceRadius * diag, j, peaceLeftLeg
	}
}

func (s *Sampler) peace(dst []float32) {
	for i := 0; i+2 < len(dst); i += 3 {
		dst[i], dst[i+1], dst[i+2], _ = s.peacePoint()
	}
}

// glyphs reuses the rasterized points cyclically so every particle gets one.
func (s *Sampler) glyphs(dst []float32) {
	k := len(s.text) / 3
	for i := 0; i+2 < len(dst); i += 3 {
		src := ((i / 3) % k) * 3
		dst[i] = s.text[src]
		dst[i+1] = s.text[src+1]
		dst[i+2] = s.text[src+2] + s.jitter(textDepth)
	}
}
