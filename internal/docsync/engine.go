package docsync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/journal"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/metrics"
	"git.home.luguber.info/inful/notionsync/internal/navigator"
	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/pathresolve"
	"git.home.luguber.info/inful/notionsync/internal/util/keylock"
)

// Converter renders a document body into content blocks. Relative links are
// resolved against documentURL.
type Converter interface {
	ConvertDocument(raw []byte, documentURL string) ([]notion.Block, error)
}

// Engine syncs individual documents into pages under a repository page.
type Engine struct {
	cfg      *config.SyncConfig
	store    notion.BlockStore
	nav      *navigator.Navigator
	conv     Converter
	upToDate UpToDateFunc
	recorder metrics.Recorder
	journal  journal.Journal
	runID    string
	// pages serializes content replacement per leaf page; distinct documents
	// can derive the same title.
	pages keylock.Locks
}

// Option configures an Engine.
type Option func(*Engine)

// WithUpToDate replaces the idempotence predicate.
func WithUpToDate(fn UpToDateFunc) Option {
	return func(e *Engine) { e.upToDate = fn }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithJournal records every document outcome under runID.
func WithJournal(j journal.Journal, runID string) Option {
	return func(e *Engine) {
		e.journal = j
		e.runID = runID
	}
}

// New creates an Engine. store and nav must share the same remote session.
func New(cfg *config.SyncConfig, store notion.BlockStore, nav *navigator.Navigator, conv Converter, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		store:    store,
		nav:      nav,
		conv:     conv,
		upToDate: ContainsDigest,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncDocument brings the page for relativePath under repoPage up to date.
//
// A page whose first block already carries the document's digest is left
// untouched. Otherwise every existing content block is removed before the
// metadata blocks and the freshly rendered content are appended.
func (e *Engine) SyncDocument(ctx context.Context, repoPage *notion.Page, relativePath string) (*Result, error) {
	start := time.Now()
	res, err := e.sync(ctx, repoPage, relativePath)
	e.recorder.ObserveDocumentDuration(time.Since(start))
	if err != nil {
		e.recorder.IncDocumentOutcome(metrics.OutcomeFailed)
		e.record(ctx, journal.Event{Type: journal.EventDocumentFailed, Path: relativePath, Detail: err.Error()})
		return nil, err
	}

	e.recorder.IncDocumentOutcome(metrics.DocumentOutcome(res.Status))
	e.record(ctx, journal.Event{
		Type:   journal.EventDocumentSynced,
		Path:   relativePath,
		Digest: res.Record.Digest,
		PageID: res.Page.ID,
		Status: string(res.Status),
	})
	slog.Info("Synced document",
		logfields.Path(relativePath),
		logfields.PageID(res.Page.ID),
		logfields.Status(string(res.Status)),
		logfields.Digest(res.Record.Digest),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return res, nil
}

func (e *Engine) sync(ctx context.Context, repoPage *notion.Page, relativePath string) (*Result, error) {
	rec, err := e.load(relativePath)
	if err != nil {
		return nil, err
	}

	page, created, err := e.nav.GetOrCreateChild(ctx, repoPage, rec.Title)
	if err != nil {
		return nil, err
	}
	if created {
		e.recorder.IncPagesCreated()
	}
	res := &Result{Record: rec, Page: page, Status: StatusUpdated}
	if created {
		res.Status = StatusCreated
	}

	unlock := e.pages.Lock(page.ID)
	defer unlock()

	existing, err := e.store.ListBlocks(ctx, page)
	if err != nil {
		return nil, err
	}
	if e.upToDate(existing, rec.Digest) {
		res.Status = StatusUnchanged
		slog.Debug("Document up to date", logfields.Path(relativePath), logfields.Digest(rec.Digest))
		return res, nil
	}

	content, err := e.conv.ConvertDocument(rec.Raw, rec.SourceLink.URL)
	if err != nil {
		return nil, ferrors.InternalError("render document").WithCause(err).
			WithContext("path", relativePath).
			Build()
	}

	for _, b := range existing {
		if err := e.store.RemoveBlock(ctx, page, b.ID); err != nil {
			return nil, err
		}
	}

	blocks := append(e.metadataBlocks(rec), content...)
	if err := e.store.AppendBlocks(ctx, page, blocks); err != nil {
		return nil, err
	}
	slog.Debug("Replaced page content",
		logfields.Path(relativePath),
		logfields.PageID(page.ID),
		logfields.Blocks(len(blocks)))
	return res, nil
}

// load reads the document and derives everything that does not need the store.
func (e *Engine) load(relativePath string) (Record, error) {
	full := filepath.Join(e.cfg.RepositoryRoot, filepath.FromSlash(relativePath))
	raw, err := os.ReadFile(full)
	if err != nil {
		return Record{}, ferrors.FileAccessError("cannot read document").
			WithCause(err).
			WithContext("path", relativePath).
			Build()
	}
	if !utf8.Valid(raw) {
		return Record{}, ferrors.EncodingError("document is not valid UTF-8").
			WithContext("path", relativePath).
			Build()
	}

	alg := e.cfg.Fingerprint
	if alg == "" {
		alg = fingerprint.Default
	}
	digest, err := fingerprint.Compute(alg, raw)
	if err != nil {
		return Record{}, ferrors.InternalError("compute digest").WithCause(err).
			WithContext("path", relativePath).
			Build()
	}

	return Record{
		RelativePath: relativePath,
		Raw:          raw,
		Digest:       digest,
		Title: pathresolve.DeriveTitleWith(relativePath, raw, pathresolve.TitleOptions{
			FromFrontmatter: e.cfg.TitleFromFrontmatter,
		}),
		SourceLink: pathresolve.DeriveSourceLink(relativePath, e.cfg.SourceLinkBaseURL),
	}, nil
}

// metadataBlocks returns the digest block followed by the source link block.
func (e *Engine) metadataBlocks(rec Record) []notion.Block {
	alg := e.cfg.Fingerprint
	if alg == "" {
		alg = fingerprint.Default
	}
	digest := notion.Paragraph(fingerprint.Label(alg) + ": " + rec.Digest)

	link := notion.Block{Kind: notion.KindParagraph, Spans: []notion.Span{{Text: "File URL: "}}}
	if isAbsoluteURL(rec.SourceLink.URL) {
		link.Spans = append(link.Spans, notion.Span{Text: rec.SourceLink.Text, Link: rec.SourceLink.URL})
	} else {
		link.Spans[0].Text += rec.SourceLink.String()
	}
	return []notion.Block{digest, link}
}

func (e *Engine) record(ctx context.Context, ev journal.Event) {
	if e.journal == nil {
		return
	}
	ev.RunID = e.runID
	if err := e.journal.Append(ctx, ev); err != nil {
		slog.Warn("Journal append failed", logfields.Path(ev.Path), logfields.Error(err))
	}
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}
