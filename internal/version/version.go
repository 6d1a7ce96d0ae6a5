// Package version holds build metadata, injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/roll/internal/version.Version=v1.0.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the metadata for the --roll-version flag.
func String() string {
	return fmt.Sprintf("roll %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
