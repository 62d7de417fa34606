package metrics

import "time"

// DocumentOutcome labels the result of syncing one document.
type DocumentOutcome string

const (
	OutcomeCreated   DocumentOutcome = "created"
	OutcomeUpdated   DocumentOutcome = "updated"
	OutcomeUnchanged DocumentOutcome = "unchanged"
	OutcomeFailed    DocumentOutcome = "failed"
)

// RunOutcome labels the final status of a run.
type RunOutcome string

const (
	RunSuccess  RunOutcome = "success"
	RunFailed   RunOutcome = "failed"
	RunCanceled RunOutcome = "canceled"
)

// Recorder defines observability hooks for sync runs. Implementations must be
// safe for concurrent use.
type Recorder interface {
	IncDocumentOutcome(outcome DocumentOutcome)
	ObserveDocumentDuration(d time.Duration)
	IncPagesCreated()
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocumentOutcome(DocumentOutcome)    {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) IncPagesCreated()                      {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
func (NoopRecorder) IncRunOutcome(RunOutcome)              {}
