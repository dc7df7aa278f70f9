package handmorph

import (
	"sync/atomic"

	"github.com/gekko3d/handmorph/gesture"
)

// HandFeed is a last-value mailbox between the hand tracker and the frame
// loop. Publish overwrites whatever the loop has not read yet; there is no
// queue and no backpressure.
type HandFeed struct {
	latest atomic.Pointer[feedItem]
	seq    atomic.Uint64
}

type feedItem struct {
	frame gesture.Frame
	seq   uint64
}

// Publish stores f as the newest frame. Safe from any goroutine.
func (h *HandFeed) Publish(f gesture.Frame) {
	h.latest.Store(&feedItem{frame: f, seq: h.seq.Add(1)})
}

// Latest returns the newest frame and its sequence number, starting at 1.
func (h *HandFeed) Latest() (gesture.Frame, uint64, bool) {
	it := h.latest.Load()
	if it == nil {
		return gesture.Frame{}, 0, false
	}
	return it.frame, it.seq, true
}

// GestureModule reads the HandFeed once per frame and applies new frames to
// the MorphEngine. A zero Thresholds selects the defaults.
type GestureModule struct {
	Thresholds gesture.Thresholds
}

type gestureCursor struct {
	seq uint64
}

func (m GestureModule) Install(app *App, cmd *Commands) {
	th := m.Thresholds
	if th == (gesture.Thresholds{}) {
		th = gesture.DefaultThresholds()
	}
	cmd.AddResources(
		&HandFeed{},
		gesture.NewClassifier(th),
		&gestureCursor{},
	)
	// after the clock so frames without a timestamp get this tick's time
	app.UseStage(Input, AfterStage(PreUpdate))
	cmd.UseSystem(System(gestureSystem).InStage(Input))
}

func gestureSystem(feed *HandFeed, cls *gesture.Classifier, cur *gestureCursor, engine *MorphEngine, t *Time, log Logger) error {
	frame, seq, ok := feed.Latest()
	if !ok || seq == cur.seq {
		return nil
	}
	cur.seq = seq
	if frame.Time.IsZero() {
		frame.Time = t.Time
	}

	sig := cls.Classify(frame)
	if sig.Detected && log.DebugEnabled() {
		log.Debugf("hand centre=(%.2f, %.2f) pinch=%.3f pose=%s accepted=%v",
			sig.Center.X, sig.Center.Y, sig.Pinch, sig.Pose, sig.Accepted())
	}
	return engine.ApplySignal(sig, t.Time)
}
