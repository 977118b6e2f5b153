// Package headless races the autopilot on a simulated clock, without a
// window, and reports the result.
package headless

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"racer/internal/autopilot"
	"racer/internal/geom"
	"racer/internal/race"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// ErrDidNotFinish is returned when the simulated time limit runs out first.
var ErrDidNotFinish = errors.New("race did not finish")

// Options configures a run.
type Options struct {
	Vehicle vehicle.Params
	Race    race.Config
	Seed    uint64
	Rate    int           // ticks per simulated second
	Limit   time.Duration // simulated time cap
}

func DefaultOptions() Options {
	return Options{
		Vehicle: vehicle.DefaultParams(),
		Race:    race.DefaultConfig(),
		Seed:    1,
		Rate:    60,
		Limit:   15 * time.Minute,
	}
}

// Run drives t until the race finishes, the limit is hit or ctx is done.
// The partial result is returned alongside ErrDidNotFinish.
func Run(ctx context.Context, t *track.Track, opts Options, log zerolog.Logger) (race.Result, error) {
	if opts.Rate <= 0 {
		opts.Rate = 60
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultOptions().Limit
	}
	step := time.Second / time.Duration(opts.Rate)

	clock := &race.ManualClock{}
	start := vehicle.Pose{Pos: t.StartPosition(), Heading: t.StartHeading()}
	car := vehicle.New(opts.Vehicle, start, clock.Now(), geom.NewRand(opts.Seed))
	d := race.NewDriver(opts.Race, t, car, clock, nil, log)

	clock.Advance(opts.Race.LoadDelay)
	if !d.Start() {
		return race.Result{}, errors.Errorf("driver did not start, state %s", d.State())
	}

	pilot := autopilot.New()
	for ticks := 0; clock.Now() < opts.Limit+opts.Race.LoadDelay; ticks++ {
		if ticks%opts.Rate == 0 {
			if err := ctx.Err(); err != nil {
				return race.Result{}, errors.Wrap(err, "headless run")
			}
		}
		clock.Advance(step)
		d.Tick(pilot.Controls(car, t, step.Seconds()))
		if res, done := d.Result(); done {
			return res, nil
		}
	}

	laps := car.Laps
	log.Warn().
		Dur("limit", opts.Limit).
		Int("lap", laps.Lap).
		Int("next_checkpoint", laps.Next).
		Msg("time limit reached")
	return race.Result{
		Total:   opts.Limit,
		Laps:    append([]time.Duration(nil), laps.Laps...),
		Best:    laps.Best,
		HasBest: laps.HasBest,
	}, ErrDidNotFinish
}
