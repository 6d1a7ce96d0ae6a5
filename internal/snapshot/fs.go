package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// StripHistory deletes the .git directory of the working copy. It is a no-op
// when there is none.
func StripHistory(root string) error {
	if err := os.RemoveAll(filepath.Join(root, ".git")); err != nil {
		return removeError(err, filepath.Join(root, ".git"))
	}
	return nil
}

// dirStatus reports whether rel names a real directory under root. Every
// component is checked with Lstat, so a path that passes through a symlink
// is not a directory of the snapshot even when the link target is one.
func dirStatus(root, rel string) (exists bool, isDir bool, err error) {
	if rel == "." {
		return true, true, nil
	}
	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		fi, err := os.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return false, false, nil
		}
		if err != nil {
			return false, false, rollerrors.FileSystemError("failed to inspect path").
				WithCause(err).
				WithContext("path", cur).
				Build()
		}
		if !fi.IsDir() {
			return true, false, nil
		}
	}
	return true, true, nil
}

func removeError(err error, path string) error {
	return rollerrors.FileSystemError("failed to remove path").
		WithCause(err).
		WithContext("path", path).
		Build()
}

func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
