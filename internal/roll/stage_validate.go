package roll

import (
	"context"

	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/source"
)

// stageValidate checks the request and the working directory before anything
// touches the filesystem.
func stageValidate(_ context.Context, rs *runState) error {
	resolved, err := source.ValidateRequest(rs.request, rs.cfg().VendorRoot)
	if err != nil {
		return err
	}
	if err := source.RequireRepoRoot(rs.runner.workDir); err != nil {
		return err
	}
	resolved.Target = rs.runner.resolveTarget(resolved.Target)

	rs.resolved = resolved
	rs.report.Source = resolved.Source
	rs.report.Target = resolved.Target
	rs.log = rs.log.With(logfields.URL(resolved.Source.URL), logfields.Path(resolved.Target))
	rs.log.Debug("Request validated",
		logfields.Revision(resolved.Source.Revision),
		slogStrings("include", resolved.Filter.Include),
		slogStrings("exclude", resolved.Filter.Exclude))
	return nil
}
