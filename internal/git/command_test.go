package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/source"
)

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestCommandFetcher(t *testing.T) {
	requireGitBinary(t)
	up := newUpstream(t)

	for rev, want := range map[string]string{
		"HEAD":                 up.second.String(),
		"v1.0.0":               up.first.String(),
		"side":                 up.side.String(),
		up.first.String()[:10]: up.first.String(),
	} {
		t.Run(rev, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "dep")
			f := NewCommandFetcher("git", map[string]string{"GIT_TERMINAL_PROMPT": "0"}, nil)
			got, err := f.Fetch(context.Background(), source.Spec{URL: up.path, Revision: rev}, dest)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCommandFetcherReportsExitStatus(t *testing.T) {
	requireGitBinary(t)
	dest := filepath.Join(t.TempDir(), "dep")
	f := NewCommandFetcher("git", map[string]string{"GIT_TERMINAL_PROMPT": "0"}, nil)

	_, err := f.Fetch(context.Background(), source.Spec{URL: filepath.Join(t.TempDir(), "absent"), Revision: "HEAD"}, dest)
	require.Error(t, err)

	c, ok := rollerrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, rollerrors.CategoryGit, c.Category())
	status, ok := c.Context().Get("exit_status")
	require.True(t, ok)
	assert.NotZero(t, status)
	op, _ := c.Context().GetString("op")
	assert.Equal(t, "clone", op)
}

func TestCommandFetcherMissingBinary(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dep")
	f := NewCommandFetcher(filepath.Join(t.TempDir(), "no-git"), nil, nil)
	_, err := f.Fetch(context.Background(), source.Spec{URL: "https://example.com/r.git", Revision: "HEAD"}, dest)
	require.Error(t, err)
	assert.True(t, rollerrors.HasCategory(err, rollerrors.CategoryGit))
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin", "HOME=/root", "GIT_TERMINAL_PROMPT=1"}
	got := mergeEnv(base, map[string]string{"GIT_TERMINAL_PROMPT": "0", "B": "2", "A": "1"})
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "GIT_TERMINAL_PROMPT=0", "A=1", "B=2"}, got)
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "GIT_TERMINAL_PROMPT=1"}, base, "base must not be modified")
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "fatal: repository not found", lastLine("Cloning into 'x'...\nfatal: repository not found\n"))
	assert.Equal(t, "", lastLine(""))
}
