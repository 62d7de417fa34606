package journal

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Journal = (*SQLiteJournal)(nil)

// OpenSQLite opens or creates a journal. Use ":memory:" for an in-memory database.
func OpenSQLite(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrap(ErrOpenFailed, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, wrap(ErrSchemaFailed, err)
	}
	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		digest TEXT NOT NULL DEFAULT '',
		page_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_id ON events(run_id);
	CREATE INDEX IF NOT EXISTS idx_path ON events(path);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append adds an event.
func (j *SQLiteJournal) Append(ctx context.Context, e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (run_id, event_type, path, digest, page_id, status, detail, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, string(e.Type), e.Path, e.Digest, e.PageID, e.Status, e.Detail, ts.UnixMilli(),
	)
	if err != nil {
		return wrap(ErrAppendFailed, err)
	}
	return nil
}

const selectColumns = "SELECT id, run_id, event_type, path, digest, page_id, status, detail, timestamp FROM events"

// ByRun returns a run's events in insertion order.
func (j *SQLiteJournal) ByRun(ctx context.Context, runID string) ([]Event, error) {
	return j.query(ctx, selectColumns+" WHERE run_id = ? ORDER BY id", runID)
}

// Range returns events with timestamps in [start, end].
func (j *SQLiteJournal) Range(ctx context.Context, start, end time.Time) ([]Event, error) {
	return j.query(ctx, selectColumns+" WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		start.UnixMilli(), end.UnixMilli())
}

// LastSynced returns the newest document_synced event for path.
func (j *SQLiteJournal) LastSynced(ctx context.Context, path string) (Event, bool, error) {
	events, err := j.query(ctx, selectColumns+" WHERE path = ? AND event_type = ? ORDER BY id DESC LIMIT 1",
		path, string(EventDocumentSynced))
	if err != nil || len(events) == 0 {
		return Event{}, false, err
	}
	return events[0], true, nil
}

func (j *SQLiteJournal) query(ctx context.Context, q string, args ...any) ([]Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap(ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var typ string
		var ms int64
		if err := rows.Scan(&e.ID, &e.RunID, &typ, &e.Path, &e.Digest, &e.PageID, &e.Status, &e.Detail, &ms); err != nil {
			return nil, wrap(ErrQueryFailed, err)
		}
		e.Type = EventType(typ)
		e.Timestamp = time.UnixMilli(ms)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrQueryFailed, err)
	}
	return events, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}
