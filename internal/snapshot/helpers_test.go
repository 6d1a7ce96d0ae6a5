package snapshot

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree creates the given files under root. Keys ending in "/" create
// empty directories.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if f[len(f)-1] == '/' {
			if err := os.MkdirAll(p, 0o750); err != nil {
				t.Fatalf("mkdir %s: %v", f, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", f, err)
		}
		if err := os.WriteFile(p, []byte(f), 0o600); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

// listTree returns every path under root, slash separated and sorted.
// Directories carry a trailing "/".
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel := relSlash(root, p)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	sort.Strings(out)
	return out
}

var sampleTree = []string{
	"README.md",
	"lib/top.txt",
	"lib/core/a.txt",
	"lib/core/deep/c.txt",
	"lib/extra/b.txt",
	"library/x.txt",
	"docs/readme.md",
	"docs/api/ref.md",
	"tools/empty/",
}
