package git

import (
	"context"
	"errors"
	"strings"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// ClassifyGitError wraps a go-git failure into a FetchFailed error. The
// "reason" context is a heuristic hint for the operator; nothing retries on it.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := rollerrors.AsClassified(err); ok {
		return err
	}

	builder := rollerrors.FetchFailed("git "+op+" failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	l := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		builder.WithContext("reason", "timeout")
	case errors.Is(err, context.Canceled):
		builder.WithContext("reason", "canceled")
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid credentials"):
		builder.WithContext("reason", "auth").UserAction()
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		builder.WithContext("reason", "not_found")
	case strings.Contains(l, "remote hung up") || strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") || strings.Contains(l, "no route to host"):
		builder.WithContext("reason", "network").Retryable()
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported") || strings.Contains(l, "unsupported scheme"):
		builder.WithContext("reason", "unsupported_protocol")
	}

	return builder.Build()
}
