// Package journal records the outcome of every sync run in a local SQLite database.
package journal

import (
	"context"
	"time"
)

// EventType names a journal entry.
type EventType string

const (
	EventRunStarted     EventType = "run_started"
	EventDocumentSynced EventType = "document_synced"
	EventDocumentFailed EventType = "document_failed"
	EventRunCompleted   EventType = "run_completed"
	EventRunFailed      EventType = "run_failed"
)

// Event is one journal row. Document events carry Path, Digest, PageID and
// Status; run events carry Detail.
type Event struct {
	ID        int64
	RunID     string
	Type      EventType
	Path      string
	Digest    string
	PageID    string
	Status    string
	Detail    string
	Timestamp time.Time
}

// Journal persists and retrieves sync events.
type Journal interface {
	// Append adds an event. A zero Timestamp is replaced with the current time.
	Append(ctx context.Context, e Event) error
	// ByRun returns a run's events in insertion order.
	ByRun(ctx context.Context, runID string) ([]Event, error)
	// Range returns events with timestamps in [start, end].
	Range(ctx context.Context, start, end time.Time) ([]Event, error)
	// LastSynced returns the most recent successful sync event for path.
	LastSynced(ctx context.Context, path string) (Event, bool, error)
	Close() error
}
