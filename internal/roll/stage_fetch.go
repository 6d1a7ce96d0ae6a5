package roll

import (
	"context"
	"os"
	"path/filepath"
	"time"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/logfields"
)

// stageFetch replaces whatever is at the target with a fresh working copy at
// the requested revision.
func stageFetch(ctx context.Context, rs *runState) error {
	target := rs.resolved.Target
	if err := os.RemoveAll(target); err != nil {
		return rollerrors.FileSystemError("failed to remove previous snapshot").
			WithCause(err).
			WithContext("path", target).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return rollerrors.FileSystemError("failed to create snapshot parent directory").
			WithCause(err).
			WithContext("path", filepath.Dir(target)).
			Build()
	}

	if timeout := rs.cfg().FetchTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fetcher := rs.runner.fetcher
	rs.log.Info("Fetching source",
		logfields.Revision(rs.resolved.Source.Revision),
		logfields.Fetcher(string(fetcher.Kind())))
	t0 := time.Now()
	rev, err := fetcher.Fetch(ctx, rs.resolved.Source, target)
	rs.runner.recorder.ObserveFetchDuration(string(fetcher.Kind()), time.Since(t0), err == nil)
	if err != nil {
		return err
	}

	rs.report.Revision = rev
	rs.log = rs.log.With(logfields.Revision(rev))
	rs.log.Info("Fetched source", logfields.DurationMS(float64(time.Since(t0).Milliseconds())))
	return nil
}
