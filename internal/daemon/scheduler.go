package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler running periodic syncs.
type Scheduler struct {
	scheduler gocron.Scheduler
	runner    *serialRunner
}

// NewScheduler creates a scheduler that drives fn.
func NewScheduler(fn SyncFunc) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, runner: newSerialRunner(fn)}, nil
}

// SchedulePeriodicSync registers a sync every interval, starting immediately.
// Runs never overlap; a tick that fires during a run is rescheduled.
// Returns the job ID for later management.
func (s *Scheduler) SchedulePeriodicSync(ctx context.Context, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", ferrors.ValidationError("sync interval must be > 0").
			WithContext("interval", interval.String()).
			Build()
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.runner.Request(ctx, "schedule") }),
		gocron.WithName("periodic-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic sync job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running sync to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Status reports the runs performed so far.
func (s *Scheduler) Status() Status { return s.runner.Status() }
