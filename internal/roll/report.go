package roll

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/roll/internal/snapshot"
	"git.home.luguber.info/inful/roll/internal/source"
)

// Report describes a finished run.
type Report struct {
	RunID          string
	Source         source.Spec
	Revision       string
	Target         string
	Warnings       []snapshot.Warning
	Removed        int
	Stats          snapshot.Stats
	StageDurations map[StageName]time.Duration
	Duration       time.Duration
}

// Summary is the one-line result printed after a successful run.
func (r Report) Summary() string {
	short := r.Revision
	if len(short) > 12 {
		short = short[:12]
	}
	s := fmt.Sprintf("vendored %s@%s into %s (%s)", r.Source.URL, short, r.Target, r.Stats)
	if n := len(r.Warnings); n > 0 {
		s += fmt.Sprintf(", %d warning(s)", n)
	}
	return s
}
