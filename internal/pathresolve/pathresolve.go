// Package pathresolve derives page titles and source links from a document's
// repository-relative path.
package pathresolve

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/notionsync/internal/frontmatter"
)

// TitleSeparator joins the parent directory name and the document title.
const TitleSeparator = " - "

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TitleOptions adjusts title derivation.
type TitleOptions struct {
	// FromFrontmatter prefers a non-empty frontmatter title over the first line.
	FromFrontmatter bool
}

// DeriveTitle returns the page title for a document.
//
// The title is the document's first line with heading markers and surrounding
// whitespace removed. Documents below the repository root are prefixed with
// their immediate parent directory: "api - API Guide". An empty title never
// fails; it yields the bare directory name, or "" at the root.
func DeriveTitle(relativePath string, raw []byte) string {
	return DeriveTitleWith(relativePath, raw, TitleOptions{})
}

// DeriveTitleWith is DeriveTitle with options.
func DeriveTitleWith(relativePath string, raw []byte, opts TitleOptions) string {
	title, ok := "", false
	if opts.FromFrontmatter {
		title, ok = frontmatter.Title(raw)
	}
	if !ok {
		title = FirstLineTitle(raw)
	}
	return NormalizeTitle(composeTitle(ParentDir(relativePath), title))
}

// NormalizeTitle NFC-normalizes a page title so decomposed file names match
// pages titled in composed form.
func NormalizeTitle(title string) string {
	return norm.NFC.String(title)
}

func composeTitle(dir, title string) string {
	switch {
	case dir == "":
		return title
	case title == "":
		return dir
	default:
		return dir + TitleSeparator + title
	}
}

// FirstLineTitle strips heading markup from the first line of raw.
func FirstLineTitle(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	s := strings.TrimSpace(string(line))
	s = strings.TrimLeft(s, "#")
	return strings.TrimSpace(s)
}

// ParentDir returns the name of the directory immediately containing
// relativePath, or "" for documents at the repository root.
func ParentDir(relativePath string) string {
	dir := path.Dir(toSlash(relativePath))
	if dir == "." || dir == "/" || dir == "" {
		return ""
	}
	return path.Base(dir)
}

// SourceLink is a browsable reference back to the source file.
type SourceLink struct {
	Text string // the raw relative path
	URL  string
}

// String renders the link as a Markdown hyperlink.
func (l SourceLink) String() string {
	return fmt.Sprintf("[%s](%s)", l.Text, l.URL)
}

// DeriveSourceLink percent-encodes relativePath and joins it to baseURL.
// An empty baseURL yields the encoded path alone.
func DeriveSourceLink(relativePath, baseURL string) SourceLink {
	rel := toSlash(relativePath)
	encoded := EscapePath(rel)

	u := encoded
	if baseURL != "" {
		u = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(encoded, "/")
	}
	return SourceLink{Text: rel, URL: u}
}

// EscapePath percent-encodes every byte outside the unreserved set
// [A-Za-z0-9_.~-], keeping "/" separators intact.
func EscapePath(p string) string {
	var sb strings.Builder
	sb.Grow(len(p))
	for i := 0; i < len(p); i++ {
		c := p[i]
		if unreserved(c) || c == '/' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
