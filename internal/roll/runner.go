package roll

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/roll/internal/config"
	"git.home.luguber.info/inful/roll/internal/foundation"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/git"
	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/metrics"
	"git.home.luguber.info/inful/roll/internal/source"
)

// Runner executes snapshot runs.
type Runner struct {
	cfg      *config.Config
	fetcher  git.Fetcher
	recorder metrics.Recorder
	logger   *slog.Logger
	workDir  string
	newID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the base logger; every run derives a logger carrying its
// run id from it.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWorkDir sets the directory that must be a repository root and that
// relative snapshot paths are resolved against. It defaults to the current
// directory.
func WithWorkDir(dir string) Option {
	return func(r *Runner) { r.workDir = dir }
}

// NewRunner creates a Runner. cfg must have been validated.
func NewRunner(cfg *config.Config, fetcher git.Fetcher, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		workDir:  ".",
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// runState is threaded through the stages of one run.
type runState struct {
	runner   *Runner
	log      *slog.Logger
	request  source.Request
	resolved source.Resolved
	report   *Report
}

func (rs *runState) cfg() *config.Config { return rs.runner.cfg }

// Run executes every stage for req. The returned Result carries the report on
// success and a classified error otherwise.
func (r *Runner) Run(ctx context.Context, req source.Request) foundation.Result[Report, error] {
	id := r.newID()
	rs := &runState{
		runner:  r,
		log:     r.logger.With(logfields.RunID(id)),
		request: req,
		report: &Report{
			RunID:          id,
			StageDurations: map[StageName]time.Duration{},
		},
	}

	start := time.Now()
	err := r.runStages(ctx, rs, pipeline())
	rs.report.Duration = time.Since(start)
	r.recorder.ObserveRunDuration(rs.report.Duration)

	if err != nil {
		r.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return foundation.Err[Report, error](err)
	}
	if len(rs.report.Warnings) > 0 {
		r.recorder.IncRunOutcome(metrics.OutcomeWarning)
	} else {
		r.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	}
	return foundation.Ok[Report, error](*rs.report)
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func (r *Runner) runStages(ctx context.Context, rs *runState, stages []stageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			r.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			return rollerrors.InternalError("run canceled").
				WithCause(err).
				WithContext("stage", string(st.name)).
				Build()
		}

		warningsBefore := len(rs.report.Warnings)
		t0 := time.Now()
		err := st.fn(ctx, rs)
		dur := time.Since(t0)
		rs.report.StageDurations[st.name] = dur
		r.recorder.ObserveStageDuration(string(st.name), dur)
		rs.log.Debug("Stage finished", logfields.Stage(string(st.name)), logfields.DurationMS(float64(dur.Microseconds())/1000))

		if err != nil {
			r.recorder.IncStageResult(string(st.name), stageFailureLabel(ctx, err))
			return classifyStageError(st.name, err)
		}
		result := metrics.ResultSuccess
		if len(rs.report.Warnings) > warningsBefore {
			result = metrics.ResultWarning
		}
		r.recorder.IncStageResult(string(st.name), result)
	}
	return nil
}

func stageFailureLabel(ctx context.Context, err error) metrics.ResultLabel {
	if ctx.Err() != nil {
		return metrics.ResultCanceled
	}
	return metrics.ResultFatal
}

// classifyStageError tags err with the stage it came from. Errors nothing
// below classified are internal faults.
func classifyStageError(stage StageName, err error) error {
	if c, ok := rollerrors.AsClassified(err); ok {
		if _, set := c.Context().Get("stage"); set {
			return c
		}
		return c.WithContext("stage", string(stage))
	}
	return rollerrors.InternalError("stage failed").
		WithCause(err).
		WithContext("stage", string(stage)).
		Build()
}

// resolveTarget makes a relative snapshot path relative to the work dir.
func (r *Runner) resolveTarget(target string) string {
	if filepath.IsAbs(target) || r.workDir == "." || r.workDir == "" {
		return target
	}
	return filepath.Join(r.workDir, target)
}
