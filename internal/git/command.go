package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"git.home.luguber.info/inful/roll/internal/config"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/source"
)

// CommandFetcher fetches by running the git binary. Each child process gets a
// copy of the current environment with overrides applied on top; the
// process-wide environment is never modified.
type CommandFetcher struct {
	binary    string
	overrides map[string]string
	progress  io.Writer
}

// NewCommandFetcher creates a fetcher for binary (usually "git").
func NewCommandFetcher(binary string, overrides map[string]string, progress io.Writer) *CommandFetcher {
	if binary == "" {
		binary = "git"
	}
	return &CommandFetcher{binary: binary, overrides: overrides, progress: progress}
}

func (f *CommandFetcher) Kind() config.FetcherKind { return config.FetcherExec }

// Fetch runs clone, resolves the revision to a commit, hard resets to it and
// reads HEAD back.
func (f *CommandFetcher) Fetch(ctx context.Context, src source.Spec, dest string) (string, error) {
	if _, err := f.run(ctx, "", "clone", "--", src.URL, dest); err != nil {
		return "", f.wrap(err, "clone", src)
	}

	commit, err := f.run(ctx, dest, "rev-parse", "--verify", "--quiet", src.Revision+"^{commit}")
	if err != nil {
		var ferr error
		commit, ferr = f.run(ctx, dest, "rev-parse", "--verify", "--quiet", remoteFallback(src.Revision)+"^{commit}")
		if ferr != nil {
			return "", f.wrap(err, "resolve", src)
		}
	}

	if _, err := f.run(ctx, dest, "reset", "--hard", commit); err != nil {
		return "", f.wrap(err, "reset", src)
	}

	head, err := f.run(ctx, dest, "rev-parse", "HEAD")
	if err != nil {
		return "", f.wrap(err, "rev-parse", src)
	}
	return head, nil
}

// commandError carries what the operator needs to diagnose a failed git run.
type commandError struct {
	args     []string
	exitCode int
	stderr   string
	err      error
}

func (e *commandError) Error() string {
	msg := e.err.Error()
	if e.stderr != "" {
		msg += ": " + e.stderr
	}
	return msg
}

func (e *commandError) Unwrap() error { return e.err }

func (f *CommandFetcher) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, f.binary, args...) // #nosec G204 -- binary comes from operator config
	cmd.Dir = dir
	cmd.Env = mergeEnv(os.Environ(), f.overrides)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if f.progress != nil {
		cmd.Stderr = io.MultiWriter(&stderr, f.progress)
	} else {
		cmd.Stderr = &stderr
	}

	slog.Debug("Running git", slog.String("args", strings.Join(args, " ")), logfields.Path(dir))
	if err := cmd.Run(); err != nil {
		ce := &commandError{args: args, exitCode: -1, stderr: lastLine(stderr.String()), err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.exitCode = exitErr.ExitCode()
		}
		return "", ce
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (f *CommandFetcher) wrap(err error, op string, src source.Spec) error {
	b := rollerrors.FetchFailed("git "+op+" failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", src.URL)
	if op == "resolve" {
		b.WithContext("revision", src.Revision)
	}
	var ce *commandError
	if errors.As(err, &ce) && ce.exitCode >= 0 {
		b.WithContext("exit_status", ce.exitCode)
	}
	return b.Build()
}

// mergeEnv returns base with overrides applied. Overridden keys keep their
// position; new keys are appended in sorted order so the result is stable.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if !seen[key] {
				out = append(out, key+"="+v)
				seen[key] = true
			}
			continue
		}
		out = append(out, kv)
	}
	extra := make([]string, 0, len(overrides))
	for k := range overrides {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, k+"="+overrides[k])
	}
	return out
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
