package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/handmorph"
	"github.com/gekko3d/handmorph/cue"
	"github.com/gekko3d/handmorph/gesture"
	"github.com/gekko3d/handmorph/shape"
	"github.com/gekko3d/handmorph/termview"
	"github.com/gekko3d/handmorph/tracker"
)

const (
	keyHelp  = "1 fist  2 pinch  3 palm  4 peace  arrows move  space hand  q quit"
	feedHelp = "q quit"
	moveStep = 0.04

	// a held pose is re-sent at this period, so one pressed inside the
	// gesture cooldown still lands once the cooldown is over
	replayEvery = 100 * time.Millisecond
)

// keyboardHand turns key presses into synthetic tracker frames.
type keyboardHand struct {
	mu      sync.Mutex
	pose    gesture.Gesture
	cx, cy  float64
	visible bool
}

func (k *keyboardHand) frame() gesture.Frame {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.visible {
		return gesture.Frame{}
	}
	return gesture.Frame{Hands: []gesture.Landmarks{gesture.Synthetic(k.pose, k.cx, k.cy)}}
}

// replay publishes the held hand every period until ctx is done. A hidden
// hand publishes nothing.
func (k *keyboardHand) replay(ctx context.Context, every time.Duration, publish func(gesture.Frame)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if f := k.frame(); len(f.Hands) > 0 {
				publish(f)
			}
		}
	}
}

// handle applies ev and reports whether a new frame should be published.
func (k *keyboardHand) handle(ev *tcell.EventKey) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	// the camera image is mirrored: moving right means a smaller image x
	switch ev.Key() {
	case tcell.KeyLeft:
		k.cx = min(0.9, k.cx+moveStep)
	case tcell.KeyRight:
		k.cx = max(0.1, k.cx-moveStep)
	case tcell.KeyUp:
		k.cy = max(0.1, k.cy-moveStep)
	case tcell.KeyDown:
		k.cy = min(0.9, k.cy+moveStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case '1':
			k.pose = gesture.Fist
		case '2':
			k.pose = gesture.Pinch
		case '3':
			k.pose = gesture.OpenPalm
		case '4':
			k.pose = gesture.PeaceSign
		case '0':
			k.pose = gesture.None
		case ' ':
			k.visible = !k.visible
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func quitKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
}

func main() {
	cfg := handmorph.DefaultConfig()

	particles := flag.Int("particles", cfg.ParticleCount, "Number of particles")
	text := flag.String("text", cfg.Text, "Text shown by the open palm")
	startShape := flag.String("shape", string(cfg.Shape), "Start shape: sphere, heart, peace, text")
	seed := flag.Uint64("seed", 0, "Random seed, 0 for a random one")
	fps := flag.Int("fps", 30, "Frame rate cap")
	landmarks := flag.String("landmarks", "", "JSON lines landmark stream, - for stdin; empty drives the hand from the keyboard")
	mute := flag.Bool("mute", false, "Disable transition chimes")
	logPath := flag.String("log", "", "Write the log to this file")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.Parse()

	cfg.ParticleCount = *particles
	cfg.Text = *text
	cfg.Seed = *seed
	id, err := shape.Parse(*startShape)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	cfg.Shape = id
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, *fps, *landmarks, *logPath, *debug, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg handmorph.Config, fps int, landmarks, logPath string, debug, mute bool) error {
	// the terminal belongs to the view; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	var feed io.Reader
	switch landmarks {
	case "":
	case "-":
		feed = os.Stdin
	default:
		f, err := os.Open(landmarks)
		if err != nil {
			return err
		}
		defer f.Close()
		feed = f
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	help := keyHelp
	if feed != nil {
		help = feedHelp
	}

	var sound handmorph.Cue
	if !mute {
		chime, err := cue.NewChime()
		if err != nil {
			// Non-fatal, runs without sound
			fmt.Fprintf(logOut, "audio disabled: %v\n", err)
		} else {
			defer chime.Close()
			sound = chime
		}
	}

	app := handmorph.NewAppBuilder().
		UseModule(
			handmorph.LoggingModule{Prefix: "handmorph", Debug: debug, Output: logOut},
			handmorph.TimeModule{TargetFPS: fps},
			handmorph.MorphModule{Config: cfg},
			handmorph.GestureModule{},
			handmorph.RenderModule{Renderer: termview.New(screen, help)},
			handmorph.CueModule{Cue: sound},
		).
		Build()

	hands, ok := handmorph.Resource[handmorph.HandFeed](app)
	if !ok {
		return app.Run()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if feed != nil {
		go func() {
			if err := tracker.ReadJSON(ctx, feed, nil, hands.Publish); err != nil && ctx.Err() == nil {
				app.Logger().Errorf("landmark stream: %v", err)
			}
		}()
	}

	kb := &keyboardHand{pose: gesture.None, cx: 0.5, cy: 0.5, visible: feed == nil}
	if feed == nil {
		go kb.replay(ctx, replayEvery, hands.Publish)
	}
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				// screen finalized
				return
			case *tcell.EventKey:
				if quitKey(ev) {
					app.Stop()
					return
				}
				if feed == nil && kb.handle(ev) {
					hands.Publish(kb.frame())
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	return app.Run()
}
