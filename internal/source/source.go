package source

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// DefaultRevision pins to the tip of the remote's default branch.
const DefaultRevision = "HEAD"

// Spec identifies what to fetch.
type Spec struct {
	URL      string
	Revision string
}

// Filter holds the include and exclude roots, relative to the snapshot root.
// Include is nil when no include was requested, which keeps everything.
type Filter struct {
	Include []string
	Exclude []string
}

// HasIncludes reports whether the pruner must run.
func (f Filter) HasIncludes() bool { return f.Include != nil }

// Request is the raw operator input.
type Request struct {
	URL      string
	Revision string
	Path     string
	Include  []string
	Exclude  []string
}

// Resolved is a validated Request.
type Resolved struct {
	Source Spec
	Target string
	Filter Filter
}

// DefaultTarget derives the snapshot path from the URL: vendorRoot, then the
// host, then the URL path without a leading slash and a trailing ".git".
// Credentials in the URL never end up in the path.
func DefaultTarget(u *url.URL, vendorRoot string) string {
	p := strings.TrimPrefix(u.Path, "/")
	p = strings.TrimSuffix(p, "/")
	p = strings.TrimSuffix(p, ".git")
	return filepath.Join(vendorRoot, u.Host, filepath.FromSlash(path.Clean("/" + p)[1:]))
}
