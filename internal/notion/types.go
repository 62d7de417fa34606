package notion

import (
	"context"
	"strings"
)

// Page is a node in the remote page hierarchy. Titles are not unique among
// siblings; the store does not enforce it.
type Page struct {
	ID    string
	Title string
}

// Kind is the type of a content block.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading1  Kind = "heading_1"
	KindHeading2  Kind = "heading_2"
	KindHeading3  Kind = "heading_3"
	KindBulleted  Kind = "bulleted_list_item"
	KindNumbered  Kind = "numbered_list_item"
	KindToDo      Kind = "to_do"
	KindCode      Kind = "code"
	KindQuote     Kind = "quote"
	KindDivider   Kind = "divider"
	// KindChildPage only appears when listing raw children; it is never appended as content.
	KindChildPage Kind = "child_page"
)

// Span is a run of rich text with optional annotations.
type Span struct {
	Text   string
	Link   string
	Bold   bool
	Italic bool
	Code   bool
	Strike bool
}

// Block is one unit of rendered content on a page. Order within a page is significant.
type Block struct {
	ID       string
	Kind     Kind
	Spans    []Span
	Language string // code blocks only
	Checked  bool   // to_do blocks only
	Children []Block
}

// PlainText is the block's rendered text with annotations dropped.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Text builds a block of the given kind holding a single unannotated span.
func Text(kind Kind, text string) Block {
	return Block{Kind: kind, Spans: []Span{{Text: text}}}
}

// Paragraph builds a plain paragraph block.
func Paragraph(text string) Block {
	return Text(KindParagraph, text)
}

// PageStore is the structural half of the store used to navigate the page tree.
type PageStore interface {
	// ListChildPages returns parent's child pages in the store's native order.
	// Content blocks are not included.
	ListChildPages(ctx context.Context, parent *Page) ([]*Page, error)
	// CreateChildPage appends a new page titled title under parent.
	CreateChildPage(ctx context.Context, parent *Page, title string) (*Page, error)
}

// BlockStore reads and mutates a page's content blocks.
type BlockStore interface {
	ListBlocks(ctx context.Context, page *Page) ([]Block, error)
	RemoveBlock(ctx context.Context, page *Page, blockID string) error
	AppendBlocks(ctx context.Context, page *Page, blocks []Block) error
}

// Store is the full remote session. One Store is created per run and shared by
// every component.
type Store interface {
	PageStore
	BlockStore
	// ResolvePage looks a page up by an opaque reference (id or URL).
	ResolvePage(ctx context.Context, ref string) (*Page, error)
}
