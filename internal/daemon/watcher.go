package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

// DefaultDebounce is the quiet window used when WatchOptions.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce coalesces bursts of events into one sync.
	Debounce time.Duration
	// Relevant decides whether a changed slash-separated path, relative to the
	// root, should trigger a sync. Nil accepts every file.
	Relevant func(rel string) bool
	// SkipInitial suppresses the sync that normally runs before watching starts.
	SkipInitial bool
}

// Watcher re-syncs a repository whenever relevant files change.
type Watcher struct {
	root   string
	opts   WatchOptions
	runner *serialRunner
}

// NewWatcher creates a Watcher for root.
func NewWatcher(root string, opts WatchOptions, fn SyncFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{root: root, opts: opts, runner: newSerialRunner(fn)}
}

// Status reports the runs performed so far.
func (w *Watcher) Status() Status { return w.runner.Status() }

// Run watches until ctx is canceled. Sync failures are logged and do not stop
// the watcher; only watcher setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	if !w.opts.SkipInitial {
		w.runner.Request(ctx, "initial")
	}

	requests := make(chan struct{}, 1)
	trigger := debounce(w.opts.Debounce, func() {
		select {
		case requests <- struct{}{}:
		default:
		}
	})

	workerCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-requests:
				w.runner.Request(workerCtx, "change")
			}
		}
	}()
	defer func() {
		stop()
		wg.Wait()
	}()

	slog.Info("Watching for changes", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(fw, ev) {
				trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleEvent starts watching new directories and reports whether ev should
// trigger a sync.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Op&fsnotify.Chmod == ev.Op {
		return false
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addDirsRecursive(fw, ev.Name); err != nil {
				slog.Warn("Watch add failed", logfields.Path(ev.Name), logfields.Error(err))
			}
			return true
		}
	}
	if isTempFile(ev.Name) {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.opts.Relevant != nil && !w.opts.Relevant(rel) {
		return false
	}
	slog.Debug("Change detected", logfields.Path(rel), slog.String("op", ev.Op.String()))
	return true
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// isTempFile matches editor swap and backup files.
func isTempFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"))
}

// debounce returns a trigger that calls fn once no trigger has happened for d.
func debounce(d time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
}
