package gesture

import (
	"testing"
	"time"

	"github.com/gekko3d/handmorph/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func frameAt(g Gesture, at time.Duration) Frame {
	return Frame{Time: t0.Add(at), Hands: []Landmarks{Synthetic(g, 0.5, 0.5)}}
}

func TestClassify_Poses(t *testing.T) {
	tests := []struct {
		g    Gesture
		want shape.ID
	}{
		{Fist, shape.Sphere},
		{Pinch, shape.Heart},
		{OpenPalm, shape.Text},
		{PeaceSign, shape.Peace},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			c := NewClassifier(DefaultThresholds())
			sig := c.Classify(frameAt(tt.g, 0))
			require.True(t, sig.Detected)
			assert.Equal(t, tt.g, sig.Pose)
			assert.Equal(t, tt.g, sig.Gesture)
			got, ok := sig.Gesture.Shape()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_AmbiguousPoseIsWithheld(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	sig := c.Classify(frameAt(None, 0))
	assert.True(t, sig.Detected, "hand is present")
	assert.Equal(t, None, sig.Pose)
	assert.False(t, sig.Accepted())
	assert.Equal(t, Fingers{Index: true}, sig.Fingers)

	// ambiguous frames do not start the cooldown
	sig = c.Classify(frameAt(Fist, 10*time.Millisecond))
	assert.Equal(t, Fist, sig.Gesture)
}

func TestClassify_NoHand(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	sig := c.Classify(Frame{Time: t0})
	assert.False(t, sig.Detected)
	assert.Equal(t, r2.Vec{}, sig.Center)
	assert.Zero(t, sig.Pinch)
	assert.Equal(t, None, sig.Gesture)
}

func TestClassify_Debounce(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	first := c.Classify(frameAt(Pinch, 0))
	assert.Equal(t, Pinch, first.Gesture)

	second := c.Classify(frameAt(PeaceSign, 200*time.Millisecond))
	assert.Equal(t, PeaceSign, second.Pose, "pose is still read")
	assert.Equal(t, None, second.Gesture, "but not accepted inside the cooldown")

	third := c.Classify(frameAt(OpenPalm, 300*time.Millisecond))
	assert.Equal(t, OpenPalm, third.Gesture)

	fourth := c.Classify(frameAt(Fist, 599*time.Millisecond))
	assert.Equal(t, None, fourth.Gesture)
}

func TestClassify_CenterAndPinch(t *testing.T) {
	th := DefaultThresholds()
	c := NewClassifier(th)

	sig := c.Classify(Frame{Time: t0, Hands: []Landmarks{Synthetic(OpenPalm, 0.3, 0.6)}})
	assert.InDelta(t, (0.5-0.3)*th.Sensitivity, sig.Center.X, 1e-9)
	assert.InDelta(t, (0.5-0.6)*th.Sensitivity, sig.Center.Y, 1e-9)

	want := (sig.PinchDistance - th.PinchOffset) * th.PinchGain
	assert.InDelta(t, want, sig.Pinch, 1e-9)
	assert.Greater(t, sig.Pinch, 0.0)

	// a tight pinch clamps at zero
	sig = c.Classify(frameAt(Pinch, time.Second))
	assert.Less(t, sig.PinchDistance, th.PinchOffset)
	assert.Zero(t, sig.Pinch)
}

func TestClassify_PinchWinsPriority(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	h := Synthetic(OpenPalm, 0.5, 0.5)
	// touch thumb to index while every finger stays extended
	h[ThumbTip] = r2.Add(h[IndexTip], r2.Vec{X: 0.01})
	sig := c.Classify(Frame{Time: t0, Hands: []Landmarks{h}})
	assert.True(t, sig.Fingers.allOpen())
	assert.Equal(t, Pinch, sig.Gesture)
}

func TestClassify_OnlyFirstHandUsed(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	sig := c.Classify(Frame{Time: t0, Hands: []Landmarks{
		Synthetic(Fist, 0.5, 0.5),
		Synthetic(Pinch, 0.5, 0.5),
	}})
	assert.Equal(t, Fist, sig.Gesture)
}

func TestGesture_NoneHasNoShape(t *testing.T) {
	_, ok := None.Shape()
	assert.False(t, ok)
	assert.Equal(t, "none", None.String())
}
