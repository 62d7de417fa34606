// Package discovery finds the Markdown documents of a repository.
package discovery

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/util/sets"
)

// DefaultExtensions is used when Options.Extensions is empty.
var DefaultExtensions = []string{".md"}

// Options controls which files qualify.
type Options struct {
	// Extensions are matched case-insensitively, with leading dot.
	Extensions []string
	// Ignored drops every path containing any of these substrings.
	Ignored []string
}

// Discover returns the slash-separated paths, relative to root, of every
// qualifying document.
//
// Documents outside hidden directories come first in lexical order, followed by
// documents with at least one dot-prefixed path component. Paths containing an
// ignored substring are dropped.
func Discover(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ferrors.FileAccessError("cannot read repository root").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileAccessError("repository root is not a directory").
			WithContext("path", root).
			Build()
	}

	exts := normalizeExtensions(opts.Extensions)
	visible, hidden, err := walk(root, exts)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range sets.Unique(append(visible, hidden...)) {
		if ignored(p, opts.Ignored) {
			slog.Debug("Ignoring document", logfields.Path(p))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// walkDir is swapped in tests to simulate unreadable directories.
var walkDir = filepath.WalkDir

// walk makes a single pass and splits matches into visible and hidden paths.
// Any unreadable entry below root aborts discovery.
func walk(root string, exts []string) (visible, hidden []string, err error) {
	err = walkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !matchesExtension(d.Name(), exts) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if IsHidden(rel) {
			hidden = append(hidden, rel)
		} else {
			visible = append(visible, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, ferrors.FileAccessError("cannot walk repository").
			WithCause(err).
			WithContext("path", failedPath(err, root)).
			Build()
	}
	return visible, hidden, nil
}

func failedPath(err error, root string) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return root
}

// IsHidden reports whether any component of the slash path starts with a dot.
func IsHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// Qualifies reports whether a slash-separated relative path would be returned
// by Discover with the same options.
func Qualifies(rel string, opts Options) bool {
	return matchesExtension(rel, normalizeExtensions(opts.Extensions)) && !ignored(rel, opts.Ignored)
}

func ignored(rel string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(rel, s) {
			return true
		}
	}
	return false
}

func matchesExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	var out []string
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return DefaultExtensions
	}
	return out
}
