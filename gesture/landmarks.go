// Package gesture classifies a tracked hand skeleton into a small set of
// discrete poses that drive shape changes.
package gesture

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// NumLandmarks is the size of the standard hand skeleton.
const NumLandmarks = 21

// Landmark indices used by the classifier.
const (
	Wrist         = 0
	ThumbTip      = 4
	IndexTip      = 8
	MiddleKnuckle = 9
	MiddleTip     = 12
	RingTip       = 16
	PinkyTip      = 20
)

// Landmarks is one hand in normalised image coordinates, x and y in [0,1],
// y growing downward.
type Landmarks [NumLandmarks]r2.Vec

// Frame is a single delivery from the hand tracker. Hands holds zero or one
// hand; additional hands are ignored.
type Frame struct {
	Time  time.Time
	Hands []Landmarks
}

// Hand returns the first tracked hand.
func (f Frame) Hand() (Landmarks, bool) {
	if len(f.Hands) == 0 {
		return Landmarks{}, false
	}
	return f.Hands[0], true
}

func dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
