// Package markdown renders Markdown documents into remote content blocks.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/notionsync/internal/frontmatter"
	"git.home.luguber.info/inful/notionsync/internal/notion"
)

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// KeepFrontmatter renders a leading YAML frontmatter block as a code block
	// instead of dropping it.
	KeepFrontmatter bool
}

// Converter turns Markdown into blocks. It is safe for concurrent use.
type Converter struct {
	md   goldmark.Markdown
	opts Options
}

// NewConverter creates a Converter with GitHub Flavored Markdown enabled.
func NewConverter(opts Options) *Converter {
	return &Converter{
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		opts: opts,
	}
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func (c *Converter) ParseBody(body []byte) gmast.Node {
	return c.md.Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext()))
}

// Convert renders raw Markdown with relative links left unresolved.
func (c *Converter) Convert(raw []byte) ([]notion.Block, error) {
	return c.ConvertDocument(raw, "")
}

// ConvertDocument renders raw Markdown. Relative link destinations are resolved
// against documentURL; those that cannot be made absolute render as plain text.
func (c *Converter) ConvertDocument(raw []byte, documentURL string) ([]notion.Block, error) {
	doc, err := frontmatter.Split(raw)
	if err != nil {
		// An unterminated frontmatter block is rendered as ordinary Markdown.
		doc = frontmatter.Document{Body: raw}
	}

	var out []notion.Block
	if doc.Had && c.opts.KeepFrontmatter {
		out = append(out, notion.Block{
			Kind:     notion.KindCode,
			Language: "yaml",
			Spans:    []notion.Span{{Text: strings.TrimRight(string(doc.Frontmatter), "\r\n")}},
		})
	}

	r := renderer{src: doc.Body, documentURL: documentURL}
	out = append(out, r.blocks(c.ParseBody(doc.Body))...)
	return out, nil
}

type renderer struct {
	src         []byte
	documentURL string
}

func (r *renderer) blocks(parent gmast.Node) []notion.Block {
	var out []notion.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, r.block(n)...)
	}
	return out
}

func (r *renderer) block(n gmast.Node) []notion.Block {
	switch node := n.(type) {
	case *gmast.Heading:
		return []notion.Block{{Kind: headingKind(node.Level), Spans: r.spans(node)}}
	case *gmast.Paragraph, *gmast.TextBlock:
		spans := r.spans(node)
		if len(spans) == 0 {
			return nil
		}
		return []notion.Block{{Kind: notion.KindParagraph, Spans: spans}}
	case *gmast.List:
		kind := notion.KindBulleted
		if node.IsOrdered() {
			kind = notion.KindNumbered
		}
		var items []notion.Block
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			items = append(items, r.listItem(li, kind))
		}
		return items
	case *gmast.FencedCodeBlock:
		return []notion.Block{{
			Kind:     notion.KindCode,
			Language: string(node.Language(r.src)),
			Spans:    []notion.Span{{Text: r.lines(node)}},
		}}
	case *gmast.CodeBlock:
		return []notion.Block{{Kind: notion.KindCode, Spans: []notion.Span{{Text: r.lines(node)}}}}
	case *gmast.Blockquote:
		return []notion.Block{r.quote(node)}
	case *gmast.ThematicBreak:
		return []notion.Block{{Kind: notion.KindDivider}}
	case *gmast.HTMLBlock:
		text := htmlText(r.lines(node))
		if text == "" {
			return nil
		}
		return []notion.Block{notion.Paragraph(text)}
	case *east.Table:
		return r.table(node)
	default:
		return r.blocks(n)
	}
}

// listItem uses the item's first text child as its content. Anything after it,
// nested lists included, becomes children.
func (r *renderer) listItem(li gmast.Node, kind notion.Kind) notion.Block {
	item := notion.Block{Kind: kind}
	rest := li.FirstChild()
	if first := rest; first != nil {
		switch first.(type) {
		case *gmast.TextBlock, *gmast.Paragraph:
			if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
				item.Kind = notion.KindToDo
				item.Checked = box.IsChecked
			}
			item.Spans = r.spans(first)
			rest = first.NextSibling()
		}
	}
	for n := rest; n != nil; n = n.NextSibling() {
		item.Children = append(item.Children, r.block(n)...)
	}
	return item
}

func (r *renderer) quote(bq *gmast.Blockquote) notion.Block {
	q := notion.Block{Kind: notion.KindQuote}
	rest := bq.FirstChild()
	if p, ok := rest.(*gmast.Paragraph); ok {
		q.Spans = r.spans(p)
		rest = p.NextSibling()
	}
	for n := rest; n != nil; n = n.NextSibling() {
		q.Children = append(q.Children, r.block(n)...)
	}
	return q
}

// table renders one paragraph per row with cells joined by " | ".
func (r *renderer) table(t *east.Table) []notion.Block {
	var out []notion.Block
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var spans []notion.Span
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell != row.FirstChild() {
				spans = append(spans, notion.Span{Text: " | "})
			}
			spans = append(spans, r.spans(cell)...)
		}
		_, header := row.(*east.TableHeader)
		if header {
			for i := range spans {
				spans[i].Bold = true
			}
		}
		out = append(out, notion.Block{Kind: notion.KindParagraph, Spans: mergeSpans(spans)})
	}
	return out
}

func (r *renderer) lines(n gmast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(r.src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func headingKind(level int) notion.Kind {
	switch level {
	case 1:
		return notion.KindHeading1
	case 2:
		return notion.KindHeading2
	default:
		return notion.KindHeading3
	}
}
