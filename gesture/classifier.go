package gesture

import (
	"time"

	"github.com/gekko3d/handmorph/shape"
	"gonum.org/v1/gonum/spatial/r2"
)

type Gesture int

const (
	None Gesture = iota
	Fist
	Pinch
	OpenPalm
	PeaceSign
)

func (g Gesture) String() string {
	switch g {
	case Fist:
		return "fist"
	case Pinch:
		return "pinch"
	case OpenPalm:
		return "open-palm"
	case PeaceSign:
		return "peace-sign"
	}
	return "none"
}

// Shape returns the target shape a gesture selects.
func (g Gesture) Shape() (shape.ID, bool) {
	switch g {
	case Fist:
		return shape.Sphere, true
	case Pinch:
		return shape.Heart, true
	case OpenPalm:
		return shape.Text, true
	case PeaceSign:
		return shape.Peace, true
	}
	return "", false
}

// Thresholds are tuned for a webcam at arm's length; distances are in
// normalised image units.
type Thresholds struct {
	PinchClose  float64 // thumb-index distance below which the hand pinches
	PinchOpen   float64 // thumb-index distance required for an open palm
	PeacePinch  float64 // thumb-index distance required for a peace sign
	FingerOpen  float64 // fingertip-wrist distance above which a finger is extended
	PinchOffset float64
	PinchGain   float64
	Sensitivity float64 // hand centre scale, in world units across the frame
	Cooldown    time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PinchClose:  0.05,
		PinchOpen:   0.1,
		PeacePinch:  0.05,
		FingerOpen:  0.35,
		PinchOffset: 0.04,
		PinchGain:   15,
		Sensitivity: 30,
		Cooldown:    300 * time.Millisecond,
	}
}

// Fingers records which of the four long fingers are extended.
type Fingers struct {
	Index, Middle, Ring, Pinky bool
}

func (f Fingers) allOpen() bool   { return f.Index && f.Middle && f.Ring && f.Pinky }
func (f Fingers) allClosed() bool { return !f.Index && !f.Middle && !f.Ring && !f.Pinky }

// Signal is the classifier output for one frame.
type Signal struct {
	Time     time.Time
	Detected bool

	Center        r2.Vec  // hand centre in world units, origin at frame centre
	PinchDistance float64 // raw thumb-index distance
	Pinch         float64 // pinch magnitude, never negative
	Fingers       Fingers

	// Pose is the geometric reading of the hand; None when ambiguous.
	Pose Gesture
	// Gesture is Pose when it was accepted past the cooldown, None otherwise.
	Gesture Gesture
}

// Accepted reports whether the frame carries a gesture that should change
// the shape.
func (s Signal) Accepted() bool { return s.Gesture != None }

// Classifier is stateful only through the time of the last accepted gesture.
type Classifier struct {
	th           Thresholds
	lastAccepted time.Time
}

func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

func (c *Classifier) Thresholds() Thresholds { return c.th }

// Classify reads one tracker frame. A frame without a hand yields a
// Signal with Detected false and zeroed inputs; it never forces a gesture.
func (c *Classifier) Classify(f Frame) Signal {
	sig := Signal{Time: f.Time}
	hand, ok := f.Hand()
	if !ok {
		return sig
	}
	sig.Detected = true

	palm := hand[MiddleKnuckle]
	sig.Center = r2.Scale(c.th.Sensitivity, r2.Vec{X: 0.5 - palm.X, Y: 0.5 - palm.Y})

	sig.PinchDistance = dist(hand[ThumbTip], hand[IndexTip])
	sig.Pinch = max(0, (sig.PinchDistance-c.th.PinchOffset)*c.th.PinchGain)

	wrist := hand[Wrist]
	open := func(tip int) bool { return dist(hand[tip], wrist) > c.th.FingerOpen }
	sig.Fingers = Fingers{
		Index:  open(IndexTip),
		Middle: open(MiddleTip),
		Ring:   open(RingTip),
		Pinky:  open(PinkyTip),
	}

	sig.Pose = c.resolve(sig.PinchDistance, sig.Fingers)
	if sig.Pose != None && c.cooledDown(f.Time) {
		sig.Gesture = sig.Pose
		c.lastAccepted = f.Time
	}
	return sig
}

func (c *Classifier) cooledDown(now time.Time) bool {
	return c.lastAccepted.IsZero() || now.Sub(c.lastAccepted) >= c.th.Cooldown
}

// resolve applies the poses in priority order.
func (c *Classifier) resolve(pinchDist float64, f Fingers) Gesture {
	switch {
	case pinchDist < c.th.PinchClose:
		return Pinch
	case f.allOpen() && pinchDist > c.th.PinchOpen:
		return OpenPalm
	case f.Index && f.Middle && !f.Ring && !f.Pinky && pinchDist > c.th.PeacePinch:
		return PeaceSign
	case f.allClosed():
		return Fist
	}
	return None
}
