// Package walker drives one sync run over a repository.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/discovery"
	"git.home.luguber.info/inful/notionsync/internal/docsync"
	"git.home.luguber.info/inful/notionsync/internal/journal"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/metrics"
	"git.home.luguber.info/inful/notionsync/internal/navigator"
	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/pathresolve"
)

// Summary describes a finished run.
type Summary struct {
	RunID        string
	Documents    int
	Created      int
	Updated      int
	Unchanged    int
	PagesCreated int // includes the repository page
	Duration     time.Duration
}

func (s *Summary) add(status docsync.Status) {
	s.Documents++
	switch status {
	case docsync.StatusCreated:
		s.Created++
		s.PagesCreated++
	case docsync.StatusUpdated:
		s.Updated++
	case docsync.StatusUnchanged:
		s.Unchanged++
	}
}

// Runner syncs every qualifying document of a repository.
type Runner struct {
	Store     notion.Store
	Converter docsync.Converter
	// Progress receives one line per document, the relative path. Defaults to io.Discard.
	Progress io.Writer
	Recorder metrics.Recorder
	Journal  journal.Journal
	// UpToDate overrides the default idempotence predicate when set.
	UpToDate docsync.UpToDateFunc

	progressMu sync.Mutex
}

// Run performs one complete sync of cfg.RepositoryRoot under cfg.RootPage.
//
// The repository page is found or created under the root page, then documents
// are synced in discovery order. With cfg.Concurrency > 1 documents are synced
// in parallel and the first failure cancels the rest.
func (r *Runner) Run(ctx context.Context, cfg *config.SyncConfig) (summary *Summary, err error) {
	start := time.Now()
	summary = &Summary{RunID: uuid.NewString()}
	recorder := r.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	log := slog.With(logfields.RunID(summary.RunID), logfields.Repository(cfg.RepositoryName))

	r.journalRun(ctx, summary.RunID, journal.EventRunStarted, cfg.RepositoryRoot)
	defer func() {
		summary.Duration = time.Since(start)
		recorder.ObserveRunDuration(summary.Duration)
		switch {
		case err == nil:
			recorder.IncRunOutcome(metrics.RunSuccess)
			r.journalRun(context.WithoutCancel(ctx), summary.RunID, journal.EventRunCompleted,
				fmt.Sprintf("%d documents, %d created, %d updated, %d unchanged",
					summary.Documents, summary.Created, summary.Updated, summary.Unchanged))
		case errors.Is(err, context.Canceled):
			recorder.IncRunOutcome(metrics.RunCanceled)
			r.journalRun(context.WithoutCancel(ctx), summary.RunID, journal.EventRunFailed, err.Error())
		default:
			recorder.IncRunOutcome(metrics.RunFailed)
			r.journalRun(context.WithoutCancel(ctx), summary.RunID, journal.EventRunFailed, err.Error())
		}
	}()

	root, err := r.Store.ResolvePage(ctx, cfg.RootPage)
	if err != nil {
		return summary, err
	}
	nav := navigator.New(r.Store)
	repoPage, created, err := nav.GetOrCreateChild(ctx, root, pathresolve.NormalizeTitle(cfg.RepositoryName))
	if err != nil {
		return summary, err
	}
	if created {
		summary.PagesCreated++
		recorder.IncPagesCreated()
	}
	log.Info("Syncing repository", logfields.PageID(repoPage.ID), logfields.ParentID(root.ID))

	paths, err := discovery.Discover(cfg.RepositoryRoot, discovery.Options{
		Extensions: cfg.Extensions,
		Ignored:    cfg.IgnoredPathSubstrings,
	})
	if err != nil {
		return summary, err
	}

	opts := []docsync.Option{docsync.WithRecorder(recorder)}
	if r.Journal != nil {
		opts = append(opts, docsync.WithJournal(r.Journal, summary.RunID))
	}
	if r.UpToDate != nil {
		opts = append(opts, docsync.WithUpToDate(r.UpToDate))
	}
	engine := docsync.New(cfg, r.Store, nav, r.Converter, opts...)

	if cfg.Concurrency > 1 {
		err = r.parallel(ctx, engine, repoPage, paths, cfg.Concurrency, summary)
	} else {
		err = r.sequential(ctx, engine, repoPage, paths, summary)
	}
	if err != nil {
		return summary, err
	}

	log.Info("Sync complete",
		slog.Int("documents", summary.Documents),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("unchanged", summary.Unchanged),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return summary, nil
}

func (r *Runner) sequential(ctx context.Context, engine *docsync.Engine, repoPage *notion.Page, paths []string, summary *Summary) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.progress(p)
		res, err := engine.SyncDocument(ctx, repoPage, p)
		if err != nil {
			return err
		}
		summary.add(res.Status)
	}
	return nil
}

func (r *Runner) parallel(ctx context.Context, engine *docsync.Engine, repoPage *notion.Page, paths []string, limit int, summary *Summary) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var mu sync.Mutex
	for _, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.progress(p)
			res, err := engine.SyncDocument(gctx, repoPage, p)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.add(res.Status)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) progress(path string) {
	if r.Progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	_, _ = fmt.Fprintln(r.Progress, path)
}

func (r *Runner) journalRun(ctx context.Context, runID string, typ journal.EventType, detail string) {
	if r.Journal == nil {
		return
	}
	if err := r.Journal.Append(ctx, journal.Event{RunID: runID, Type: typ, Detail: detail}); err != nil {
		slog.Warn("Journal append failed", logfields.RunID(runID), logfields.Error(err))
	}
}
