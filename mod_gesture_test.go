package handmorph

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/gekko3d/handmorph/gesture"
	"github.com/gekko3d/handmorph/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time         { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type countingCue struct {
	played []shape.ID
}

func (c *countingCue) Play(to shape.ID) { c.played = append(c.played, to) }

type session struct {
	app    *App
	clock  *fakeClock
	engine *MorphEngine
	feed   *HandFeed
	frames []Frame
	cue    *countingCue
}

func newSession(t *testing.T) *session {
	t.Helper()
	s := &session{clock: &fakeClock{now: start}, cue: &countingCue{}}
	s.engine = newTestEngine(t)
	s.app = NewAppBuilder().
		UseModule(
			TimeModule{Clock: s.clock.Now},
			MorphModule{Engine: s.engine},
			GestureModule{},
			RenderModule{Renderer: RendererFunc(func(f *Frame) error {
				s.frames = append(s.frames, *f)
				return nil
			})},
			CueModule{Cue: s.cue},
		).
		Build()
	feed, ok := Resource[HandFeed](s.app)
	require.True(t, ok)
	s.feed = feed
	return s
}

func (s *session) tick(t *testing.T, d time.Duration) {
	t.Helper()
	s.clock.Advance(d)
	require.NoError(t, s.app.Step())
}

func (s *session) show(g gesture.Gesture) {
	s.feed.Publish(gesture.Frame{
		Time:  s.clock.Now(),
		Hands: []gesture.Landmarks{gesture.Synthetic(g, 0.5, 0.5)},
	})
}

func TestHandFeed_LastValueWins(t *testing.T) {
	var feed HandFeed
	_, _, ok := feed.Latest()
	assert.False(t, ok)

	feed.Publish(gesture.Frame{Time: start})
	feed.Publish(gesture.Frame{Time: start.Add(time.Second)})
	f, seq, ok := feed.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), seq)
	assert.Equal(t, start.Add(time.Second), f.Time)
}

func TestHandFeed_ConcurrentPublish(t *testing.T) {
	var feed HandFeed
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				feed.Publish(gesture.Frame{})
				feed.Latest()
			}
		}()
	}
	wg.Wait()
	_, seq, ok := feed.Latest()
	assert.True(t, ok)
	assert.Equal(t, uint64(800), seq)
}

func TestSession_PinchMorphsToHeart(t *testing.T) {
	s := newSession(t)
	s.tick(t, 16*time.Millisecond)
	assert.Equal(t, shape.Sphere, s.engine.Shape())
	before := append([]float32(nil), s.engine.Buffer().Target...)

	s.show(gesture.Pinch)
	s.tick(t, 16*time.Millisecond)
	switched := s.clock.Now()

	assert.Equal(t, shape.Heart, s.engine.Shape())
	assert.NotEqual(t, before, s.engine.Buffer().Target)
	assert.True(t, s.engine.Flashing())
	assert.Equal(t, []shape.ID{shape.Heart}, s.cue.played)

	// targets lie on the scaled heart curve
	tgt := s.engine.Buffer().Target
	for i := 0; i < len(tgt); i += 3 {
		assert.LessOrEqual(t, tgt[i], float32(16*shape.HeartScale)+1e-4)
		assert.InDelta(t, 0, tgt[i+2], 2)
	}

	for s.clock.Now().Sub(switched) < 240*time.Millisecond {
		s.tick(t, 16*time.Millisecond)
		assert.True(t, s.engine.Flashing())
	}
	s.tick(t, 16*time.Millisecond)
	assert.False(t, s.engine.Flashing())

	require.NotEmpty(t, s.frames)
	last := s.frames[len(s.frames)-1]
	assert.Equal(t, shape.Heart, last.Shape)
	assert.Len(t, last.Positions, 3*testConfig().ParticleCount)
	assert.Equal(t, testConfig().ParticleSize, last.PointSize)
}

func TestSession_FrameReadOnce(t *testing.T) {
	s := newSession(t)
	s.show(gesture.Pinch)
	s.tick(t, 16*time.Millisecond)
	assert.Equal(t, 1, s.engine.Transitions())

	// no new delivery: the stale frame is not classified again
	s.tick(t, time.Second)
	s.tick(t, time.Second)
	assert.Equal(t, 1, s.engine.Transitions())
}

func TestSession_DebounceBetweenGestures(t *testing.T) {
	s := newSession(t)
	s.show(gesture.Pinch)
	s.tick(t, 16*time.Millisecond)
	require.Equal(t, shape.Heart, s.engine.Shape())

	s.tick(t, 100*time.Millisecond)
	s.show(gesture.PeaceSign)
	s.tick(t, 16*time.Millisecond)
	assert.Equal(t, shape.Heart, s.engine.Shape(), "inside the cooldown")

	s.tick(t, 300*time.Millisecond)
	s.show(gesture.OpenPalm)
	s.tick(t, 16*time.Millisecond)
	assert.Equal(t, shape.Text, s.engine.Shape())
	assert.Equal(t, []shape.ID{shape.Heart, shape.Text}, s.cue.played)
}

func TestSession_HandLostKeepsShape(t *testing.T) {
	s := newSession(t)
	s.show(gesture.PeaceSign)
	s.tick(t, 16*time.Millisecond)
	require.Equal(t, shape.Peace, s.engine.Shape())

	s.feed.Publish(gesture.Frame{Time: s.clock.Now()})
	for i := 0; i < 100; i++ {
		s.tick(t, 16*time.Millisecond)
	}
	assert.Equal(t, shape.Peace, s.engine.Shape())
	assert.InDelta(t, 0, s.engine.Pinch(), 1e-6)
}

func TestSession_RendersAdvancedFrames(t *testing.T) {
	s := newSession(t)
	s.tick(t, 16*time.Millisecond)
	s.tick(t, 16*time.Millisecond)
	assert.Len(t, s.frames, 2)
	assert.False(t, s.engine.Buffer().Dirty())
	assert.Equal(t, uint64(2), s.frames[1].Number)
}

func TestMorphModule_BuildsEngineWithText(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig()
	app := NewAppBuilder().
		UseModule(
			LoggingModule{Prefix: "test", Debug: true, Output: &logs},
			TimeModule{Clock: (&fakeClock{now: start}).Now},
			MorphModule{Config: cfg},
		).
		Build()
	require.NoError(t, app.Step())

	engine, ok := Resource[MorphEngine](app)
	require.True(t, ok)
	require.NoError(t, engine.SetTargetShape(shape.Text, start))
	assert.Equal(t, shape.Text, engine.Shape())
	assert.Contains(t, logs.String(), "[test] DEBUG: text \"HELLO\" rasterized")
	assert.Contains(t, logs.String(), "shape sphere -> text")
}

func TestMorphModule_FailsFastOnBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MorphSpeed = 0
	app := NewAppBuilder().
		UseModule(
			TimeModule{},
			MorphModule{Config: cfg},
			CueModule{Cue: &countingCue{}},
		).
		Build()
	err := app.Run()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMorphModule_EmptyTextFailsAtStartup(t *testing.T) {
	cfg := testConfig()
	cfg.Text = ""
	app := NewAppBuilder().
		UseModule(
			TimeModule{Clock: (&fakeClock{now: start}).Now},
			MorphModule{Config: cfg},
			GestureModule{},
			CueModule{Cue: &countingCue{}},
		).
		Build()

	// fails before any frame runs, not on the first open palm
	_, ok := Resource[MorphEngine](app)
	assert.False(t, ok)
	assert.ErrorIs(t, app.Step(), ErrInvalidConfig)
}

func TestMorphModule_StartShape(t *testing.T) {
	cfg := testConfig()
	cfg.Shape = shape.Text
	app := NewAppBuilder().
		UseModule(
			TimeModule{Clock: (&fakeClock{now: start}).Now},
			MorphModule{Config: cfg},
		).
		Build()
	require.NoError(t, app.Step())

	engine, ok := Resource[MorphEngine](app)
	require.True(t, ok)
	assert.Equal(t, shape.Text, engine.Shape())
	assert.False(t, engine.Flashing())
	assert.Zero(t, engine.Transitions())
}

func TestGestureModule_InputRunsAfterClock(t *testing.T) {
	app := NewAppBuilder().
		UseModule(
			GestureModule{},
			TimeModule{Clock: (&fakeClock{now: start}).Now},
		).
		Build()
	assert.Equal(t, []Stage{PreUpdate, Input, Update, Render, Finale}, app.stages)
}

func TestSession_OpenPalmReachesText(t *testing.T) {
	s := newSession(t)
	for i := 0; i < 3; i++ {
		s.show(gesture.OpenPalm)
		s.tick(t, 16*time.Millisecond)
	}
	assert.Equal(t, shape.Text, s.engine.Shape())
	assert.Equal(t, 1, s.engine.Transitions())
}
