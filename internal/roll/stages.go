package roll

import "context"

// StageName identifies a step of a run.
type StageName string

// Canonical stage names, in execution order.
const (
	StageValidate         StageName = "validate"
	StageFetch            StageName = "fetch"
	StageStripHistory     StageName = "strip_history"
	StageFlattenVendor    StageName = "flatten_vendor"
	StagePrune            StageName = "prune"
	StageExclude          StageName = "exclude"
	StageRecordProvenance StageName = "record_provenance"
	StageMeasure          StageName = "measure"
)

// stageFunc runs one stage against the shared run state.
type stageFunc func(ctx context.Context, rs *runState) error

type stageDef struct {
	name StageName
	fn   stageFunc
}

func pipeline() []stageDef {
	return []stageDef{
		{StageValidate, stageValidate},
		{StageFetch, stageFetch},
		{StageStripHistory, stageStripHistory},
		{StageFlattenVendor, stageFlattenVendor},
		{StagePrune, stagePrune},
		{StageExclude, stageExclude},
		{StageRecordProvenance, stageRecordProvenance},
		{StageMeasure, stageMeasure},
	}
}
