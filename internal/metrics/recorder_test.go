package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	runDurations   int
	runOutcomes    map[OutcomeLabel]int
	fetches        int
	removed        map[string]int
	warnings       map[string]int
	files          int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		runOutcomes:    map[OutcomeLabel]int{},
		removed:        map[string]int{},
		warnings:       map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) ObserveRunDuration(time.Duration)                 { t.runDurations++ }
func (t *testRecorder) IncRunOutcome(o OutcomeLabel)                     { t.runOutcomes[o]++ }
func (t *testRecorder) ObserveFetchDuration(string, time.Duration, bool) { t.fetches++ }
func (t *testRecorder) AddRemovedPaths(stage string, n int)              { t.removed[stage] += n }
func (t *testRecorder) IncWarning(kind string)                           { t.warnings[kind]++ }
func (t *testRecorder) SetSnapshotSize(files int, _ int64)               { t.files = files }

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*testRecorder)(nil)
)

func TestRecorderInterface(t *testing.T) {
	var r Recorder = newTestRecorder()
	r.ObserveStageDuration("fetch", time.Second)
	r.IncStageResult("fetch", ResultSuccess)
	r.AddRemovedPaths("prune", 2)
	r.AddRemovedPaths("prune", 1)
	r.IncWarning("missing_exclude")

	tr := r.(*testRecorder)
	if tr.stageDurations["fetch"] != 1 {
		t.Fatalf("expected one fetch duration, got %d", tr.stageDurations["fetch"])
	}
	if tr.stageResults["fetch"][ResultSuccess] != 1 {
		t.Fatalf("expected one fetch success")
	}
	if tr.removed["prune"] != 3 {
		t.Fatalf("expected 3 removed paths, got %d", tr.removed["prune"])
	}

	NoopRecorder{}.IncRunOutcome(OutcomeSuccess)
}
