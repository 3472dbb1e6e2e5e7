// Package worker schedules the daily automatic news delivery.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is the unit of work the scheduler fires once per day.
type Job interface {
	SendDailyUpdates(ctx context.Context) error
}

// Daily fires a job at a fixed local wall-clock time every day.
type Daily struct {
	job    Job
	hour   int
	minute int
	loc    *time.Location
	logger *zerolog.Logger
}

// NewDaily creates a scheduler firing at hour:minute in loc.
func NewDaily(job Job, hour, minute int, loc *time.Location, logger *zerolog.Logger) *Daily {
	return &Daily{
		job:    job,
		hour:   hour,
		minute: minute,
		loc:    loc,
		logger: logger,
	}
}

// Run blocks, firing the job every day until the context is canceled. A job
// failure is logged and the schedule continues.
func (d *Daily) Run(ctx context.Context) error {
	for {
		next := NextRun(time.Now().In(d.loc), d.hour, d.minute, d.loc)
		d.logger.Info().Time("next_run", next).Msg("daily update scheduled")

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := d.job.SendDailyUpdates(ctx); err != nil {
			d.logger.Error().Err(err).Msg("daily update failed")
		}
	}
}

// NextRun returns the next occurrence of hour:minute in loc strictly after
// now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
