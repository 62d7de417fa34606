// Package errors provides the classified error type used across notionsync.
//
// Every failure that can end a sync run is reported as a ClassifiedError carrying a
// category, a severity, a retry hint and structured context. The CLI maps categories to
// process exit codes through CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.FileAccessError("read document").
//		WithCause(readErr).
//		WithContext("path", relPath).
//		Build()
package errors
