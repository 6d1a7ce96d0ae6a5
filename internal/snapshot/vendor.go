package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// FlattenNestedVendor removes the dirName directory at the snapshot root. If
// it held any file, the returned warning lists every directory beneath it
// that directly contains files, sorted and relative to root; those are
// dependencies the operator has to vendor separately. A nil warning means
// there was nothing worth reporting.
func FlattenNestedVendor(root, dirName string) (*Warning, error) {
	vendor := filepath.Join(root, dirName)
	fi, err := os.Lstat(vendor)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, rollerrors.FileSystemError("failed to inspect nested vendor directory").
			WithCause(err).
			WithContext("path", vendor).
			Build()
	}
	if !fi.IsDir() {
		return nil, nil
	}

	seen := map[string]bool{}
	err = filepath.WalkDir(vendor, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		seen[relSlash(root, filepath.Dir(p))] = true
		return nil
	})
	if err != nil {
		return nil, rollerrors.FileSystemError("failed to scan nested vendor directory").
			WithCause(err).
			WithContext("path", vendor).
			Build()
	}

	var warning *Warning
	if len(seen) > 0 {
		dirs := make([]string, 0, len(seen))
		for d := range seen {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)
		warning = &Warning{
			Kind:    WarnNestedVendor,
			Path:    filepath.ToSlash(dirName),
			Message: fmt.Sprintf("removed nested %s directory, vendor these separately", dirName),
			Dirs:    dirs,
		}
	}

	if err := os.RemoveAll(vendor); err != nil {
		return warning, removeError(err, vendor)
	}
	return warning, nil
}
