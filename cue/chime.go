// Package cue plays short tones when the particle cloud changes shape.
package cue

import (
	"sync"
	"time"

	"github.com/gekko3d/handmorph/shape"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	chimeLen   = 120 * time.Millisecond
)

// Tones per shape in Hz; a rising scale from idle to text.
var tones = map[shape.ID]float64{
	shape.Sphere: 440,
	shape.Heart:  554.37,
	shape.Peace:  659.25,
	shape.Text:   880,
}

// Chime plays a sine blip per transition. A Chime whose speaker failed to
// initialise stays silent.
type Chime struct {
	mu          sync.Mutex
	initialized bool
}

// NewChime opens the speaker. The returned Chime is usable even when err is
// non-nil; the app can run without sound.
func NewChime() (*Chime, error) {
	c := &Chime{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return c, err
	}
	c.initialized = true
	return c, nil
}

func (c *Chime) Play(to shape.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	freq, ok := tones[to]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(chimeLen), sine))
}

func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Close()
		c.initialized = false
	}
}
