package git

import (
	"context"
	"fmt"
	"io"

	"git.home.luguber.info/inful/roll/internal/auth"
	"git.home.luguber.info/inful/roll/internal/config"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/source"
)

// Fetcher obtains src into dest and returns the resolved commit hash.
// dest must not exist yet; its parent must.
type Fetcher interface {
	Fetch(ctx context.Context, src source.Spec, dest string) (string, error)
	Kind() config.FetcherKind
}

// New builds the fetcher selected by cfg. progress receives clone output and
// may be nil.
func New(cfg *config.Config, progress io.Writer) (Fetcher, error) {
	switch cfg.Fetcher {
	case config.FetcherExec:
		return NewCommandFetcher(cfg.GitBinary, cfg.Env, progress), nil
	case config.FetcherGoGit, "":
		method, err := auth.CreateAuth(cfg.Auth)
		if err != nil {
			return nil, rollerrors.ConfigError("failed to setup authentication").WithCause(err).Build()
		}
		return NewGoGitFetcher(method, progress), nil
	default:
		return nil, rollerrors.ConfigError(fmt.Sprintf("unknown fetcher %q", cfg.Fetcher)).Build()
	}
}

// remoteFallback is tried when a revision does not resolve as given: a branch
// that only exists on the remote after a fresh clone.
func remoteFallback(rev string) string {
	return "origin/" + rev
}
