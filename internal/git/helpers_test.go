package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var testSignature = &object.Signature{Name: "tester", Email: "t@example.com", When: time.Unix(1700000000, 0)}

// commitFile writes name with content into the repository and commits it.
func commitFile(t *testing.T, repo *git.Repository, repoPath, name, content string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	full := filepath.Join(repoPath, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	h, err := wt.Commit("update "+name, &git.CommitOptions{Author: testSignature})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return h
}

// upstream is a small repository with two commits on the default branch, a
// lightweight tag on the first one and a side branch.
type upstream struct {
	path   string
	first  plumbing.Hash
	second plumbing.Hash
	side   plumbing.Hash
}

func newUpstream(t *testing.T) upstream {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upstream")
	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	u := upstream{path: path}
	u.first = commitFile(t, repo, path, "lib/core/a.txt", "v1")
	if _, err := repo.CreateTag("v1.0.0", u.first, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	u.second = commitFile(t, repo, path, "lib/core/a.txt", "v2")

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	side := plumbing.NewBranchReferenceName("side")
	if err := wt.Checkout(&git.CheckoutOptions{Branch: side, Create: true}); err != nil {
		t.Fatalf("checkout side: %v", err)
	}
	u.side = commitFile(t, repo, path, "side.txt", "side")
	if err := wt.Checkout(&git.CheckoutOptions{Branch: head.Name()}); err != nil {
		t.Fatalf("checkout back: %v", err)
	}
	return u
}
