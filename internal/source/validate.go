package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/roll/internal/foundation"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// ValidateURL parses raw and requires a scheme. A bare path is not a remote.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, rollerrors.InvalidArgument("invalid url").
			WithCause(err).
			WithContext("url", raw).
			Build()
	}
	if u.Scheme == "" {
		return nil, rollerrors.InvalidArgument("invalid url: no scheme").
			WithContext("url", raw).
			Build()
	}
	return u, nil
}

// ValidateFilterPath requires p to be relative to the snapshot root and
// returns it cleaned. Entries that climb out of the root are rejected like
// absolute ones.
func ValidateFilterPath(p string) (string, error) {
	if r := checkFilterPath(p); !r.Valid {
		return "", r.ToError()
	}
	return filepath.Clean(p), nil
}

func checkFilterPath(p string) foundation.ValidationResult {
	if strings.TrimSpace(p) == "" {
		return foundation.Invalid(foundation.NewValidationError("path", "required", "subdirectory must not be empty", p))
	}
	if filepath.IsAbs(p) {
		return foundation.Invalid(foundation.NewValidationError("path", "relative",
			fmt.Sprintf("subdirectory %s must be a relative path", p), p))
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return foundation.Invalid(foundation.NewValidationError("path", "escape",
			fmt.Sprintf("subdirectory %s escapes the snapshot root", p), p))
	}
	return foundation.Valid()
}

// RequireRepoRoot fails unless dir is itself the root of a git repository.
// Parent directories are not searched: the default vendor path is only
// meaningful relative to the top of the consuming project.
func RequireRepoRoot(dir string) error {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: false})
	if err == nil {
		return nil
	}
	b := rollerrors.PreconditionFailed("roll must be run from the root of a repository").
		WithContext("dir", dir)
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		b.WithCause(err)
	}
	return b.Build()
}

func field(name string, v Validator) foundation.Validator[string] {
	return func(s string) foundation.ValidationResult {
		r := v(s)
		for i := range r.Errors {
			r.Errors[i].Field = name
		}
		return r
	}
}

// Validator checks a single raw string.
type Validator = foundation.Validator[string]

// ValidateRequest checks every input of req and reports all problems in one
// InvalidArgument error. Nothing is read from or written to disk.
func ValidateRequest(req Request, vendorRoot string) (Resolved, error) {
	var res Resolved
	result := foundation.Valid()

	u, err := ValidateURL(req.URL)
	if err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewValidationError("url", "scheme", messageOf(err), req.URL)))
	}

	var incl, excl []string
	if req.Include != nil {
		incl = make([]string, 0, len(req.Include))
	}
	for _, p := range req.Include {
		r := field("--incl", checkFilterPath)(p)
		result = result.Combine(r)
		if r.Valid {
			incl = append(incl, filepath.Clean(p))
		}
	}
	for _, p := range req.Exclude {
		r := field("--excl", checkFilterPath)(p)
		if r.Valid && filepath.Clean(p) == "." {
			r = foundation.Invalid(foundation.NewValidationError("--excl", "root", "excluding the snapshot root is not allowed", p))
		}
		result = result.Combine(r)
		if r.Valid {
			excl = append(excl, filepath.Clean(p))
		}
	}

	target := req.Path
	if target == "" && u != nil {
		if u.Host == "" && strings.Trim(u.Path, "/") == "" {
			result = result.Combine(foundation.Invalid(foundation.NewValidationError("--path", "derive",
				"cannot derive a vendor path from the url, pass --path", req.URL)))
		} else {
			target = DefaultTarget(u, vendorRoot)
		}
	}
	if target != "" {
		target = filepath.Clean(target)
		if target == "." || target == string(filepath.Separator) {
			result = result.Combine(foundation.Invalid(foundation.NewValidationError("--path", "root",
				fmt.Sprintf("refusing to use %s as the snapshot path", req.Path), req.Path)))
		}
	}

	if err := result.ToError(); err != nil {
		return res, err
	}

	rev := strings.TrimSpace(req.Revision)
	if rev == "" {
		rev = DefaultRevision
	}
	res = Resolved{
		Source: Spec{URL: req.URL, Revision: rev},
		Target: target,
		Filter: Filter{Include: incl, Exclude: excl},
	}
	return res, nil
}

func messageOf(err error) string {
	if c, ok := rollerrors.AsClassified(err); ok {
		if c.Cause() != nil {
			return c.Message() + ": " + c.Cause().Error()
		}
		return c.Message()
	}
	return err.Error()
}
