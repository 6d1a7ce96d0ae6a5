package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", ".roll.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != ".roll.yaml" {
			t.Errorf("expected context file=.roll.yaml, got %v", file)
		}
	})

	t.Run("Taxonomy constructors", func(t *testing.T) {
		cases := []struct {
			err      *ClassifiedError
			category ErrorCategory
		}{
			{InvalidArgument("no scheme").Build(), CategoryValidation},
			{PreconditionFailed("not a repository root").Build(), CategoryPrecondition},
			{FetchFailed("clone failed").Build(), CategoryGit},
			{FileSystemError("rm failed").Build(), CategoryFileSystem},
		}
		for _, c := range cases {
			if !c.err.IsCategory(c.category) {
				t.Errorf("expected %s, got %s", c.category, c.err.Category())
			}
			if !c.err.IsFatal() {
				t.Errorf("expected %s to be fatal", c.category)
			}
			if c.err.CanRetry() {
				t.Errorf("expected %s to not be retryable", c.category)
			}
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryGit, "fetch failure").
			Warning().
			Retryable().
			WithContext("url", "https://example.com/r.git").
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected warning severity, got %s", err.Severity())
		}
		if !err.CanRetry() {
			t.Error("expected error to be retryable")
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error chain to contain original error")
		}
	})

	t.Run("Category override", func(t *testing.T) {
		err := FetchFailed("lookup").WithCategory(CategoryFileSystem).Build()
		if err.Category() != CategoryFileSystem {
			t.Errorf("expected filesystem, got %s", err.Category())
		}
	})
}

func TestAsClassifiedThroughWrapping(t *testing.T) {
	inner := PreconditionFailed("must run at repository root").Build()
	wrapped := fmt.Errorf("run: %w", inner)

	got, ok := AsClassified(wrapped)
	if !ok {
		t.Fatal("expected classified error in chain")
	}
	if got != inner {
		t.Error("expected the inner error to be returned")
	}
	if GetCategory(wrapped) != CategoryPrecondition {
		t.Errorf("expected precondition, got %s", GetCategory(wrapped))
	}
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("expected unclassified errors to map to internal")
	}
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"url": "x", "op": "clone"}
	b := ErrorContext{"op": "reset"}
	merged := a.Merge(b)
	if merged["op"] != "reset" || merged["url"] != "x" {
		t.Errorf("unexpected merge result: %v", merged)
	}
	if a["op"] != "clone" {
		t.Error("merge must not mutate the receiver")
	}
}

func TestClassifiedErrorWithContextCopies(t *testing.T) {
	orig := FetchFailed("git clone failed").WithContext("url", "u").Build()
	tagged := orig.WithContext("stage", "fetch")

	if v, _ := tagged.Context().GetString("stage"); v != "fetch" {
		t.Errorf("expected stage context, got %q", v)
	}
	if v, _ := tagged.Context().GetString("url"); v != "u" {
		t.Errorf("expected url context to survive, got %q", v)
	}
	if _, ok := orig.Context().Get("stage"); ok {
		t.Error("WithContext must not modify the original error")
	}
	if tagged.Category() != CategoryGit {
		t.Errorf("category changed: %s", tagged.Category())
	}
}
