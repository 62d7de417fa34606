package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

// SyncFunc performs one complete sync run.
type SyncFunc func(ctx context.Context) error

// Status is a snapshot of the runs performed so far.
type Status struct {
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
	Running   bool      `json:"running"`
	LastStart time.Time `json:"last_start,omitzero"`
	LastEnd   time.Time `json:"last_end,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// serialRunner executes SyncFunc one run at a time. A request that arrives
// while a run is active schedules exactly one follow-up run.
type serialRunner struct {
	fn SyncFunc

	mu      sync.Mutex
	running bool
	pending bool
	status  Status
}

func newSerialRunner(fn SyncFunc) *serialRunner {
	return &serialRunner{fn: fn}
}

// Request runs the sync now, or marks a follow-up when one is already running.
// It blocks until every run it started has finished.
func (r *serialRunner) Request(ctx context.Context, reason string) {
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		slog.Debug("Sync already running; queued follow-up", slog.String("reason", reason))
		return
	}
	r.running = true
	r.mu.Unlock()

	for {
		r.runOnce(ctx, reason)

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.running = false
			r.pending = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
		reason = "follow-up"
	}
}

func (r *serialRunner) runOnce(ctx context.Context, reason string) {
	start := time.Now()
	r.mu.Lock()
	r.status.Running = true
	r.status.LastStart = start
	r.mu.Unlock()

	slog.Info("Starting sync", slog.String("reason", reason))
	err := r.fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
	r.status.Runs++
	r.status.LastEnd = time.Now()
	if err != nil {
		r.status.Failures++
		r.status.LastError = err.Error()
		slog.Error("Sync failed", logfields.Error(err),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		return
	}
	r.status.LastError = ""
	slog.Info("Sync finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Status returns a snapshot.
func (r *serialRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}
