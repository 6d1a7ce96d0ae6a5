package snapshot

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal finding.
type WarningKind string

const (
	WarnNestedVendor   WarningKind = "nested_vendor"
	WarnMissingInclude WarningKind = "missing_include"
	WarnMissingExclude WarningKind = "missing_exclude"
)

// Warning is a problem the operator should know about that does not stop the
// run.
type Warning struct {
	Kind    WarningKind
	Path    string
	Message string
	// Dirs lists the directories a nested vendor tree carried files in,
	// relative to the snapshot root.
	Dirs []string
}

func (w Warning) String() string {
	if len(w.Dirs) == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Message, strings.Join(w.Dirs, ", "))
}

func missingWarning(kind WarningKind, label, rel, reason string) Warning {
	return Warning{
		Kind:    kind,
		Path:    rel,
		Message: fmt.Sprintf("%s path %s %s, skipping", label, rel, reason),
	}
}
