package roll

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/snapshot"
)

func stageStripHistory(_ context.Context, rs *runState) error {
	return snapshot.StripHistory(rs.resolved.Target)
}

func stageFlattenVendor(_ context.Context, rs *runState) error {
	w, err := snapshot.FlattenNestedVendor(rs.resolved.Target, rs.cfg().NestedVendorDir)
	if w != nil {
		rs.warn(*w)
	}
	return err
}

func stagePrune(_ context.Context, rs *runState) error {
	if !rs.resolved.Filter.HasIncludes() {
		return nil
	}
	res, err := snapshot.PruneToIncludes(rs.resolved.Target, rs.resolved.Filter.Include)
	rs.collect(StagePrune, res)
	return err
}

func stageExclude(_ context.Context, rs *runState) error {
	if len(rs.resolved.Filter.Exclude) == 0 {
		return nil
	}
	res, err := snapshot.ApplyExcludes(rs.resolved.Target, rs.resolved.Filter.Exclude)
	rs.collect(StageExclude, res)
	return err
}

func stageRecordProvenance(_ context.Context, rs *runState) error {
	return snapshot.WriteProvenance(rs.resolved.Target, rs.cfg().ManifestName, snapshot.Provenance{
		URL:      rs.resolved.Source.URL,
		Revision: rs.report.Revision,
	})
}

func stageMeasure(_ context.Context, rs *runState) error {
	stats, err := snapshot.Measure(rs.resolved.Target)
	if err != nil {
		return err
	}
	rs.report.Stats = stats
	rs.runner.recorder.SetSnapshotSize(stats.Files, stats.Bytes)
	return nil
}

// warn records and logs a non-fatal finding.
func (rs *runState) warn(w snapshot.Warning) {
	rs.report.Warnings = append(rs.report.Warnings, w)
	rs.runner.recorder.IncWarning(string(w.Kind))
	attrs := []any{slog.String("kind", string(w.Kind)), logfields.Path(w.Path)}
	if len(w.Dirs) > 0 {
		attrs = append(attrs, slogStrings("dirs", w.Dirs))
	}
	rs.log.Warn(w.Message, attrs...)
}

func (rs *runState) collect(stage StageName, res snapshot.PruneResult) {
	for _, w := range res.Warnings {
		rs.warn(w)
	}
	for _, p := range res.Removed {
		rs.log.Debug("Removed path", logfields.Stage(string(stage)), slog.String("removed", p))
	}
	rs.report.Removed += len(res.Removed)
	rs.runner.recorder.AddRemovedPaths(string(stage), len(res.Removed))
}

func slogStrings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}
