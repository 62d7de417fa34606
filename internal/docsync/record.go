// Package docsync brings one Markdown document's remote page up to date.
package docsync

import (
	"strings"

	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/pathresolve"
)

// Record is the transient view of one source document during a run.
type Record struct {
	RelativePath string // slash-separated, relative to the repository root
	Raw          []byte
	Digest       string
	Title        string
	SourceLink   pathresolve.SourceLink
}

// Status is the outcome of syncing one document.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Result is returned by Engine.SyncDocument.
type Result struct {
	Record Record
	Page   *notion.Page
	Status Status
}

// UpToDateFunc decides whether a page's current blocks already reflect digest.
type UpToDateFunc func(blocks []notion.Block, digest string) bool

// ContainsDigest reports whether the first block's text contains digest. A page
// without blocks is never up to date.
func ContainsDigest(blocks []notion.Block, digest string) bool {
	if len(blocks) == 0 || digest == "" {
		return false
	}
	return strings.Contains(blocks[0].PlainText(), digest)
}

// Never treats every page as stale, forcing a re-render.
func Never([]notion.Block, string) bool { return false }
