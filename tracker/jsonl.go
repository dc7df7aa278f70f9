// Package tracker adapts external hand-tracking processes to gesture frames.
//
// A tracker sidecar (for example a MediaPipe script) writes one JSON object
// per processed camera frame:
//
//	{"hands": [[[x, y, z], [x, y, z], ... 21 points]]}
//
// An empty or missing "hands" array means no hand is in view.
package tracker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gekko3d/handmorph/gesture"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrMalformed = errors.New("tracker: malformed landmark record")

type record struct {
	Hands [][][]float64 `json:"hands"`
}

// Decode parses one record. Points carry x, y and an optional ignored z.
func Decode(line []byte, at time.Time) (gesture.Frame, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return gesture.Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f := gesture.Frame{Time: at}
	for hi, hand := range rec.Hands {
		if len(hand) != gesture.NumLandmarks {
			return gesture.Frame{}, fmt.Errorf("%w: hand %d has %d points, want %d",
				ErrMalformed, hi, len(hand), gesture.NumLandmarks)
		}
		var lm gesture.Landmarks
		for pi, p := range hand {
			if len(p) < 2 {
				return gesture.Frame{}, fmt.Errorf("%w: hand %d point %d has %d coordinates",
					ErrMalformed, hi, pi, len(p))
			}
			lm[pi] = r2.Vec{X: p[0], Y: p[1]}
		}
		f.Hands = append(f.Hands, lm)
	}
	return f, nil
}

// ReadJSON decodes records from r until EOF or ctx is done, handing every
// frame to publish. Frames are stamped with clock() on arrival; a nil clock
// uses time.Now. Blank lines are skipped, a malformed line stops the reader.
func ReadJSON(ctx context.Context, r io.Reader, clock func() time.Time, publish func(gesture.Frame)) error {
	if clock == nil {
		clock = time.Now
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		f, err := Decode(b, clock())
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		publish(f)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
