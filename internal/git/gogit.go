package git

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/roll/internal/config"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/source"
)

// GoGitFetcher fetches with the in-process go-git client.
type GoGitFetcher struct {
	auth     transport.AuthMethod
	progress io.Writer
}

// NewGoGitFetcher creates a fetcher; auth and progress may be nil.
func NewGoGitFetcher(auth transport.AuthMethod, progress io.Writer) *GoGitFetcher {
	return &GoGitFetcher{auth: auth, progress: progress}
}

func (f *GoGitFetcher) Kind() config.FetcherKind { return config.FetcherGoGit }

// Fetch clones the full history (an arbitrary revision may not be reachable
// from a shallow tip), hard resets to src.Revision and returns HEAD.
func (f *GoGitFetcher) Fetch(ctx context.Context, src source.Spec, dest string) (string, error) {
	slog.Debug("Cloning repository", logfields.URL(src.URL), logfields.Path(dest))
	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:      src.URL,
		Auth:     f.auth,
		Progress: f.progress,
		Tags:     git.AllTags,
	})
	if err != nil {
		return "", ClassifyGitError(err, "clone", src.URL)
	}

	hash, err := resolveRevision(repo, src.Revision)
	if err != nil {
		return "", rollerrors.FetchFailed("unknown revision").
			WithCause(err).
			WithContext("op", "resolve").
			WithContext("url", src.URL).
			WithContext("revision", src.Revision).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", ClassifyGitError(err, "worktree", src.URL)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		return "", ClassifyGitError(err, "reset", src.URL)
	}

	head, err := repo.Head()
	if err != nil {
		return "", ClassifyGitError(err, "rev-parse", src.URL)
	}
	return head.Hash().String(), nil
}

func resolveRevision(repo *git.Repository, rev string) (plumbing.Hash, error) {
	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err == nil {
		return *h, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, err
	}
	h, ferr := repo.ResolveRevision(plumbing.Revision(remoteFallback(rev)))
	if ferr != nil {
		return plumbing.ZeroHash, err
	}
	return *h, nil
}
