package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyRepo       = "repository"
	KeyPath       = "path"
	KeyPageID     = "page_id"
	KeyParentID   = "parent_id"
	KeyTitle      = "title"
	KeyDigest     = "digest"
	KeyStatus     = "status"
	KeyBlocks     = "blocks"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyURL        = "url"
	KeyAttempt    = "attempt"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func PageID(id string) slog.Attr      { return slog.String(KeyPageID, id) }
func ParentID(id string) slog.Attr    { return slog.String(KeyParentID, id) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Digest(d string) slog.Attr       { return slog.String(KeyDigest, d) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Blocks(n int) slog.Attr          { return slog.Int(KeyBlocks, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
