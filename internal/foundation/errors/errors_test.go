package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "root page missing").
			WithSeverity(SeverityFatal).
			WithContext("file", ".notionsync.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != ".notionsync.yaml" {
			t.Errorf("expected context file=.notionsync.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		base := FileAccessError("read document").WithContext("path", "a.md").Build()
		wrapped := fmt.Errorf("sync a.md: %w", base)

		classified, ok := AsClassified(wrapped)
		if !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryFileSystem) {
			t.Error("expected filesystem category")
		}
		if classified.Severity() != SeverityFatal {
			t.Error("expected fatal severity")
		}
	})

	t.Run("Encoding errors share the filesystem class", func(t *testing.T) {
		err := EncodingError("document is not valid UTF-8").Build()
		if !err.IsCategory(CategoryFileSystem) {
			t.Errorf("expected filesystem category, got %s", err.Category())
		}
		enc, _ := err.Context().GetString("encoding")
		if enc != "utf-8" {
			t.Errorf("expected encoding context, got %q", enc)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	original := stderrors.New("connection reset")
	err := WrapError(original, CategoryRemote, "append blocks").
		Retryable().
		WithContext("status", 502).
		Build()

	if !stderrors.Is(err, original) {
		t.Error("expected error to wrap original error")
	}
	if !err.CanRetry() {
		t.Error("expected backoff strategy to be retryable")
	}
	if err.Severity() != SeverityError {
		t.Error("remote errors default to non-fatal severity")
	}
	want := "[remote:error] append blocks: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ConfigError("bad").Build()
	derived := base.WithContext("key", "value")

	if _, ok := base.Context().Get("key"); ok {
		t.Error("original context must not change")
	}
	if v, _ := derived.Context().GetString("key"); v != "value" {
		t.Errorf("derived context missing key, got %q", v)
	}
}

func TestRejectedTokenRequiresUserAction(t *testing.T) {
	err := RemoteStoreError("token rejected").UserAction().WithContext("status", 401).Build()
	if err.CanRetry() {
		t.Error("auth errors must not be retried automatically")
	}
	if err.RetryStrategy() != RetryUserAction {
		t.Errorf("expected %s, got %s", RetryUserAction, err.RetryStrategy())
	}
}
