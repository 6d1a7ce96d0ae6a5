package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel is the final status of a run.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeWarning OutcomeLabel = "warning"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for a snapshot run. Implementations
// must tolerate being called from a single goroutine in stage order; nothing
// in roll records concurrently.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	ObserveFetchDuration(fetcher string, d time.Duration, success bool)
	AddRemovedPaths(stage string, n int)
	IncWarning(kind string)
	SetSnapshotSize(files int, bytes int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                       {}
func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) AddRemovedPaths(string, int)                      {}
func (NoopRecorder) IncWarning(string)                                {}
func (NoopRecorder) SetSnapshotSize(int, int64)                       {}
