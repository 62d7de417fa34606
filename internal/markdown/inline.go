package markdown

import (
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"git.home.luguber.info/inful/notionsync/internal/notion"
)

type style struct {
	bold, italic, code, strike bool
	link                       string
}

func (s style) span(text string) notion.Span {
	return notion.Span{Text: text, Link: s.link, Bold: s.bold, Italic: s.italic, Code: s.code, Strike: s.strike}
}

// spans flattens the inline children of n into annotated runs.
func (r *renderer) spans(n gmast.Node) []notion.Span {
	var out []notion.Span
	r.inline(n, style{}, &out)
	return mergeSpans(trimSpans(out))
}

func (r *renderer) inline(parent gmast.Node, st style, out *[]notion.Span) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Text:
			*out = append(*out, st.span(string(node.Segment.Value(r.src))))
			switch {
			case node.HardLineBreak():
				*out = append(*out, st.span("\n"))
			case node.SoftLineBreak():
				*out = append(*out, st.span(" "))
			}
		case *gmast.String:
			*out = append(*out, st.span(string(node.Value)))
		case *gmast.CodeSpan:
			inner := st
			inner.code = true
			*out = append(*out, inner.span(r.plain(node)))
		case *gmast.Emphasis:
			inner := st
			if node.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}
			r.inline(node, inner, out)
		case *east.Strikethrough:
			inner := st
			inner.strike = true
			r.inline(node, inner, out)
		case *gmast.Link:
			inner := st
			inner.link = ResolveLink(string(node.Destination), r.documentURL)
			r.inline(node, inner, out)
		case *gmast.AutoLink:
			inner := st
			url := string(node.URL(r.src))
			if node.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
				inner.link = "mailto:" + url
			} else {
				inner.link = ResolveLink(url, r.documentURL)
			}
			*out = append(*out, inner.span(string(node.Label(r.src))))
		case *gmast.Image:
			inner := st
			inner.link = ResolveLink(string(node.Destination), r.documentURL)
			alt := r.plain(node)
			if alt == "" {
				alt = string(node.Destination)
			}
			*out = append(*out, inner.span(alt))
		case *gmast.RawHTML:
			var sb strings.Builder
			for i := range node.Segments.Len() {
				seg := node.Segments.At(i)
				sb.Write(seg.Value(r.src))
			}
			if text := htmlText(sb.String()); text != "" {
				*out = append(*out, st.span(text))
			}
		case *east.TaskCheckBox:
			// rendered as the to_do checked state
		default:
			r.inline(n, st, out)
		}
	}
}

// plain returns the concatenated text of n's descendants without annotations.
func (r *renderer) plain(n gmast.Node) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(r.src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

func trimSpans(spans []notion.Span) []notion.Span {
	for len(spans) > 0 && strings.TrimSpace(spans[len(spans)-1].Text) == "" {
		spans = spans[:len(spans)-1]
	}
	for len(spans) > 0 && strings.TrimSpace(spans[0].Text) == "" {
		spans = spans[1:]
	}
	if len(spans) > 0 {
		spans[0].Text = strings.TrimLeft(spans[0].Text, " \t")
		spans[len(spans)-1].Text = strings.TrimRight(spans[len(spans)-1].Text, " \t")
	}
	return spans
}

// mergeSpans joins adjacent runs that share annotations.
func mergeSpans(spans []notion.Span) []notion.Span {
	var out []notion.Span
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sameStyle(out[n-1], s) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameStyle(a, b notion.Span) bool {
	return a.Link == b.Link && a.Bold == b.Bold && a.Italic == b.Italic && a.Code == b.Code && a.Strike == b.Strike
}
