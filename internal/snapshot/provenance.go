package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// DefaultManifestName is the hidden provenance file at the snapshot root.
const DefaultManifestName = ".version"

// Provenance records where a snapshot came from.
type Provenance struct {
	URL      string
	Revision string
}

// WriteProvenance writes p to name under root as two lines: the URL exactly
// as given, then the resolved revision. The file is written next to its final
// location and renamed into place.
func WriteProvenance(root, name string, p Provenance) error {
	path := filepath.Join(root, name)
	tmp := path + ".tmp"
	data := []byte(p.URL + "\n" + p.Revision + "\n")
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 -- manifest is committed alongside the vendored tree
		return rollerrors.FileSystemError("failed to write provenance manifest").
			WithCause(err).
			WithContext("path", tmp).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return rollerrors.FileSystemError("failed to replace provenance manifest").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// ReadProvenance reads a manifest written by WriteProvenance.
func ReadProvenance(root, name string) (Provenance, error) {
	path := filepath.Join(root, name)
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the snapshot root
	if err != nil {
		return Provenance{}, rollerrors.FileSystemError("failed to read provenance manifest").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 || lines[0] == "" || lines[1] == "" {
		return Provenance{}, rollerrors.FileSystemError("malformed provenance manifest").
			WithContext("path", path).
			WithContext("lines", len(lines)).
			Build()
	}
	return Provenance{URL: lines[0], Revision: lines[1]}, nil
}
