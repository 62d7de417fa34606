package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"config error", ConfigError("root page missing").Build(), 7},
		{"file access error", FileAccessError("read").Build(), 11},
		{"encoding error", EncodingError("decode").Build(), 11},
		{"remote error", RemoteStoreError("list children").Build(), 8},
		{"wrapped remote error", fmt.Errorf("sync: %w", RemoteStoreError("x").Build()), 8},
		{"journal error", JournalError("append").Build(), 12},
		{"validation error", ValidationError("interval").Build(), 2},
		{"internal error", InternalError("render").Build(), 10},
		{"unclassified error", stderrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var code int
	adapter := NewCLIErrorAdapter(false, slog.Default())
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	err := FileAccessError("read document").
		WithCause(stderrors.New("no such file")).
		WithContext("path", "docs/gone.md").
		Build()
	adapter.HandleError(err)

	if code != 11 {
		t.Errorf("exit code = %d, want 11", code)
	}
	got := out.String()
	if !strings.Contains(got, "read document (docs/gone.md): no such file") {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCLIErrorAdapter_HandleNil(t *testing.T) {
	called := false
	adapter := NewCLIErrorAdapter(true, nil)
	adapter.exit = func(int) { called = true }
	adapter.HandleError(nil)
	if called {
		t.Error("nil error must not exit")
	}
}
