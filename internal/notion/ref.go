package notion

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ExtractID turns a page reference into a canonical dashed id.
//
// Accepted forms: a dashed or compact 32-hex id, or a page URL whose last path
// segment ends in the id (https://www.notion.so/Workspace/Title-0123...cdef).
// Anything else is returned trimmed and unchanged.
func ExtractID(ref string) string {
	ref = strings.TrimSpace(ref)
	candidate := ref
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		candidate = strings.TrimSuffix(u.Path, "/")
		if i := strings.LastIndex(candidate, "/"); i >= 0 {
			candidate = candidate[i+1:]
		}
	}
	compact := strings.ReplaceAll(candidate, "-", "")
	if len(compact) < 32 {
		return ref
	}
	id, err := uuid.Parse(compact[len(compact)-32:])
	if err != nil {
		return ref
	}
	return id.String()
}
