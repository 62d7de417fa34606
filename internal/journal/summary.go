package journal

import (
	"context"
	"time"
)

// RunSummary is a read model of one run, rebuilt from its events.
type RunSummary struct {
	RunID       string
	Status      string // running, completed, failed
	StartedAt   time.Time
	CompletedAt time.Time
	Documents   map[string]int // document status -> count
	Failed      []string       // paths
	Detail      string
}

// Summarize folds a run's events into a RunSummary.
func Summarize(events []Event) RunSummary {
	s := RunSummary{Status: "running", Documents: map[string]int{}}
	for _, e := range events {
		if s.RunID == "" {
			s.RunID = e.RunID
		}
		switch e.Type {
		case EventRunStarted:
			s.StartedAt = e.Timestamp
		case EventDocumentSynced:
			s.Documents[e.Status]++
		case EventDocumentFailed:
			s.Failed = append(s.Failed, e.Path)
		case EventRunCompleted:
			s.Status = "completed"
			s.CompletedAt = e.Timestamp
			s.Detail = e.Detail
		case EventRunFailed:
			s.Status = "failed"
			s.CompletedAt = e.Timestamp
			s.Detail = e.Detail
		}
	}
	return s
}

// LoadSummary reads and summarizes one run.
func LoadSummary(ctx context.Context, j Journal, runID string) (RunSummary, error) {
	events, err := j.ByRun(ctx, runID)
	if err != nil {
		return RunSummary{}, err
	}
	s := Summarize(events)
	s.RunID = runID
	return s, nil
}
