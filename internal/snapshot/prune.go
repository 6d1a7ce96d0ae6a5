package snapshot

import (
	"os"
	"path/filepath"
	"sort"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// PruneResult describes what PruneToIncludes and ApplyExcludes did.
type PruneResult struct {
	// Removed holds the deleted paths, slash separated, relative to the
	// snapshot root and sorted.
	Removed  []string
	Warnings []Warning
}

// PruneToIncludes keeps the include roots with all their contents and the
// directories leading to them; everything else under root is deleted.
//
// Includes are cleaned paths relative to root. An include that is not an
// existing directory is reported and skipped. When includes were given but
// none of them resolved, everything under root is deleted and root itself is
// left empty. Ancestor directories keep no files of their own, and ancestry
// is decided per path component.
func PruneToIncludes(root string, includes []string) (PruneResult, error) {
	var res PruneResult
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return res, rollerrors.FileSystemError("failed to resolve snapshot root").
			WithCause(err).
			WithContext("path", root).
			Build()
	}

	keep := map[string]bool{}
	scaffold := map[string]bool{}
	for _, inc := range includes {
		rel := filepath.Clean(inc)
		exists, isDir, err := dirStatus(absRoot, rel)
		if err != nil {
			return res, err
		}
		switch {
		case !exists:
			res.Warnings = append(res.Warnings, missingWarning(WarnMissingInclude, "include", filepath.ToSlash(rel), "does not exist"))
			continue
		case !isDir:
			res.Warnings = append(res.Warnings, missingWarning(WarnMissingInclude, "include", filepath.ToSlash(rel), "is not a directory"))
			continue
		}
		if rel == "." {
			return res, nil
		}
		abs := filepath.Join(absRoot, rel)
		keep[abs] = true
		for dir := filepath.Dir(abs); dir != absRoot; dir = filepath.Dir(dir) {
			scaffold[dir] = true
		}
	}

	stack := []string{absRoot}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return res, rollerrors.FileSystemError("failed to read directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			switch {
			case keep[p]:
			case e.IsDir() && scaffold[p]:
				stack = append(stack, p)
			default:
				if err := os.RemoveAll(p); err != nil {
					return res, removeError(err, p)
				}
				res.Removed = append(res.Removed, relSlash(absRoot, p))
			}
		}
	}
	sort.Strings(res.Removed)
	return res, nil
}

// ApplyExcludes deletes every exclude root that exists as a directory in the
// tree as it is now, after pruning. Missing entries are reported and
// skipped.
func ApplyExcludes(root string, excludes []string) (PruneResult, error) {
	var res PruneResult
	for _, exc := range excludes {
		rel := filepath.Clean(exc)
		if rel == "." {
			return res, rollerrors.InvalidArgument("excluding the snapshot root is not allowed").
				WithContext("path", exc).
				Build()
		}
		exists, isDir, err := dirStatus(root, rel)
		if err != nil {
			return res, err
		}
		switch {
		case !exists:
			res.Warnings = append(res.Warnings, missingWarning(WarnMissingExclude, "exclude", filepath.ToSlash(rel), "does not exist"))
			continue
		case !isDir:
			res.Warnings = append(res.Warnings, missingWarning(WarnMissingExclude, "exclude", filepath.ToSlash(rel), "is not a directory"))
			continue
		}
		p := filepath.Join(root, rel)
		if err := os.RemoveAll(p); err != nil {
			return res, removeError(err, p)
		}
		res.Removed = append(res.Removed, filepath.ToSlash(rel))
	}
	sort.Strings(res.Removed)
	return res, nil
}
