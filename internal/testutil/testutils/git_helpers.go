// Package helpers builds git fixtures and checks snapshot trees in tests.
package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature is the author of every fixture commit.
var Signature = object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(1700000000, 0)}

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// CommitFiles writes each path with its own name as content, stages it and
// commits. Paths are slash separated and relative to the worktree root.
func CommitFiles(t *testing.T, w *git.Worktree, dir, message string, files ...string) plumbing.Hash {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir for %s: %v", f, err)
		}
		if err := os.WriteFile(p, []byte(f+"\n"), 0o600); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		if _, err := w.Add(f); err != nil {
			t.Fatalf("add %s: %v", f, err)
		}
	}
	sig := Signature
	h, err := w.Commit(message, &git.CommitOptions{Author: &sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return h
}

// Upstream creates a repository holding files in a single commit and returns
// its file:// URL and the commit hash.
func Upstream(t *testing.T, files ...string) (string, string) {
	t.Helper()
	_, w, dir := SetupTestGitRepo(t)
	h := CommitFiles(t, w, dir, "import", files...)
	return FileURL(dir), h.String()
}

// FileURL turns an absolute directory into a file:// URL.
func FileURL(dir string) string {
	return "file://" + filepath.ToSlash(dir)
}
