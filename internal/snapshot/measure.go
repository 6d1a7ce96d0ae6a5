package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// Stats summarizes a snapshot tree.
type Stats struct {
	Files int
	Dirs  int
	Bytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files in %d directories, %s", s.Files, s.Dirs, humanize.Bytes(uint64(max(s.Bytes, 0))))
}

// Measure counts the files and directories under root, root excluded, and
// sums the size of regular files.
func Measure(root string) (Stats, error) {
	var s Stats
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if d.IsDir() {
			s.Dirs++
			return nil
		}
		s.Files++
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			s.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return Stats{}, rollerrors.FileSystemError("failed to measure snapshot").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	return s, nil
}
