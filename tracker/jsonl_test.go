package tracker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/handmorph/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handJSON(t *testing.T, g gesture.Gesture) string {
	t.Helper()
	h := gesture.Synthetic(g, 0.5, 0.5)
	pts := make([][]float64, 0, len(h))
	for _, p := range h {
		pts = append(pts, []float64{p.X, p.Y, 0})
	}
	b, err := json.Marshal(record{Hands: [][][]float64{pts}})
	require.NoError(t, err)
	return string(b)
}

func TestReadJSON(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	input := strings.Join([]string{
		handJSON(t, gesture.Pinch),
		"",
		`{"hands": []}`,
		`{}`,
	}, "\n")

	var frames []gesture.Frame
	err := ReadJSON(context.Background(), strings.NewReader(input),
		func() time.Time { return now }, func(f gesture.Frame) { frames = append(frames, f) })
	require.NoError(t, err)
	require.Len(t, frames, 3)

	hand, ok := frames[0].Hand()
	require.True(t, ok)
	assert.Equal(t, gesture.Synthetic(gesture.Pinch, 0.5, 0.5), hand)
	assert.Equal(t, now, frames[0].Time)

	_, ok = frames[1].Hand()
	assert.False(t, ok)
	_, ok = frames[2].Hand()
	assert.False(t, ok)

	c := gesture.NewClassifier(gesture.DefaultThresholds())
	assert.Equal(t, gesture.Pinch, c.Classify(frames[0]).Gesture)
}

func TestReadJSON_Malformed(t *testing.T) {
	tests := []string{
		`not json`,
		`{"hands": [[[0.1, 0.2]]]}`,
		`{"hands": [[` + strings.Repeat(`[0.1],`, 20) + `[0.1]]]}`,
	}
	for _, in := range tests {
		err := ReadJSON(context.Background(), strings.NewReader(in), nil, func(gesture.Frame) {})
		assert.ErrorIs(t, err, ErrMalformed, in)
		assert.Contains(t, err.Error(), "line 1")
	}
}

func TestReadJSON_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := ReadJSON(ctx, strings.NewReader(`{}`), nil, func(gesture.Frame) { called = true })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
