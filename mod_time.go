package handmorph

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64

	clock func() time.Time
}

// TimeModule must be installed before modules whose systems read *Time.
// Clock defaults to time.Now; TargetFPS > 0 caps the frame rate.
type TimeModule struct {
	Clock     func() time.Time
	TargetFPS int
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = time.Now
	}
	cmd.AddResources(&Time{
		Time:  clock(),
		Dt:    0,
		clock: clock,
	})
	cmd.UseSystem(System(timeSystem).InStage(PreUpdate))

	if mod.TargetFPS > 0 {
		period := time.Second / time.Duration(mod.TargetFPS)
		cmd.UseSystem(System(func(t *Time) {
			frameLimit(t, period)
		}).InStage(Finale))
	}
}

func timeSystem(timeResource *Time) {
	now := timeResource.clock()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}

func frameLimit(t *Time, period time.Duration) {
	if spent := t.clock().Sub(t.Time); spent < period {
		time.Sleep(period - spent)
	}
}
