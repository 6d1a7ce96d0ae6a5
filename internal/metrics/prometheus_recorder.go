package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

const namespace = "roll"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	runDuration   prom.Histogram
	runOutcome    *prom.CounterVec
	fetchDuration *prom.HistogramVec
	removedPaths  *prom.CounterVec
	warnings      *prom.CounterVec
	snapshotFiles prom.Gauge
	snapshotBytes prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg. A
// nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual snapshot stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Runs by final status",
	}, []string{"outcome"})
	pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of the fetch including clone and reset",
		Buckets:   prom.ExponentialBuckets(0.25, 2, 12),
	}, []string{"fetcher", "result"})
	pr.removedPaths = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "removed_paths_total",
		Help:      "Paths deleted from the snapshot by stage",
	}, []string{"stage"})
	pr.warnings = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "warnings_total",
		Help:      "Non-fatal warnings by kind",
	}, []string{"kind"})
	pr.snapshotFiles = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_files",
		Help:      "Files in the finished snapshot",
	})
	pr.snapshotBytes = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_bytes",
		Help:      "Size of regular files in the finished snapshot",
	})
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcome,
		pr.fetchDuration, pr.removedPaths, pr.warnings, pr.snapshotFiles, pr.snapshotBytes)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes every metric in the registry to path in the text
// exposition format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return rollerrors.FileSystemError("failed to write metrics file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(fetcher string, d time.Duration, success bool) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(fetcher, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddRemovedPaths(stage string, n int) {
	if p == nil || p.removedPaths == nil || n <= 0 {
		return
	}
	p.removedPaths.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) IncWarning(kind string) {
	if p == nil || p.warnings == nil {
		return
	}
	p.warnings.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SetSnapshotSize(files int, bytes int64) {
	if p == nil || p.snapshotFiles == nil {
		return
	}
	p.snapshotFiles.Set(float64(files))
	p.snapshotBytes.Set(float64(bytes))
}
