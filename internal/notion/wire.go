package notion

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	// maxRichTextRunes is the API's per-element limit on text content.
	maxRichTextRunes = 2000
	// maxAppendBatch is the API's per-request limit on appended children.
	maxAppendBatch = 100
	// maxNestingDepth is how deep children may nest in a single append request.
	maxNestingDepth = 2
)

type wireLink struct {
	URL string `json:"url"`
}

type wireText struct {
	Content string    `json:"content"`
	Link    *wireLink `json:"link,omitempty"`
}

type wireAnnotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Code          bool `json:"code"`
}

type wireRichText struct {
	Type        string           `json:"type"`
	Text        *wireText        `json:"text,omitempty"`
	Annotations *wireAnnotations `json:"annotations,omitempty"`
	PlainText   string           `json:"plain_text,omitempty"`
	Href        string           `json:"href,omitempty"`
}

// wireBlock is a block as returned by the children listing endpoint. The
// type-specific payload lives under a key named after the type.
type wireBlock struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`
	payload     json.RawMessage
}

type wirePayload struct {
	RichText []wireRichText `json:"rich_text"`
	Language string         `json:"language"`
	Checked  bool           `json:"checked"`
	Title    string         `json:"title"`
}

func (w *wireBlock) UnmarshalJSON(data []byte) error {
	type plain wireBlock
	var head plain
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*w = wireBlock(head)
	w.payload = fields[head.Type]
	return nil
}

type wireList struct {
	Results    []wireBlock `json:"results"`
	NextCursor *string     `json:"next_cursor"`
	HasMore    bool        `json:"has_more"`
}

type wireProperty struct {
	Type  string         `json:"type"`
	Title []wireRichText `json:"title"`
}

type wirePage struct {
	ID         string                  `json:"id"`
	Properties map[string]wireProperty `json:"properties"`
}

func (p wirePage) title() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return joinPlainText(prop.Title)
		}
	}
	return ""
}

// apiError is the error body returned by the API.
type apiError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func joinPlainText(rt []wireRichText) string {
	var sb strings.Builder
	for _, r := range rt {
		switch {
		case r.PlainText != "":
			sb.WriteString(r.PlainText)
		case r.Text != nil:
			sb.WriteString(r.Text.Content)
		}
	}
	return sb.String()
}

// decodeBlock converts a listed block into the domain model. Nested children
// are not fetched.
func decodeBlock(w wireBlock) (Block, error) {
	b := Block{ID: w.ID, Kind: Kind(w.Type)}
	if len(w.payload) == 0 {
		return b, nil
	}
	var p wirePayload
	if err := json.Unmarshal(w.payload, &p); err != nil {
		return b, err
	}
	b.Language = p.Language
	b.Checked = p.Checked
	for _, rt := range p.RichText {
		s := Span{Text: rt.PlainText, Link: rt.Href}
		if s.Text == "" && rt.Text != nil {
			s.Text = rt.Text.Content
		}
		if s.Link == "" && rt.Text != nil && rt.Text.Link != nil {
			s.Link = rt.Text.Link.URL
		}
		if a := rt.Annotations; a != nil {
			s.Bold, s.Italic, s.Strike, s.Code = a.Bold, a.Italic, a.Strikethrough, a.Code
		}
		b.Spans = append(b.Spans, s)
	}
	return b, nil
}

// encodeBlocks renders blocks for an append request, flattening anything nested
// deeper than the API accepts in one request.
func encodeBlocks(blocks []Block, depth int) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == KindChildPage {
			continue
		}
		enc, rest := encodeBlock(b, depth)
		out = append(out, enc)
		out = append(out, rest...)
	}
	return out
}

func encodeBlock(b Block, depth int) (map[string]any, []map[string]any) {
	payload := map[string]any{}
	if b.Kind != KindDivider {
		payload["rich_text"] = encodeSpans(b.Spans)
	}
	switch b.Kind {
	case KindCode:
		payload["language"] = codeLanguage(b.Language)
	case KindToDo:
		payload["checked"] = b.Checked
	}

	var hoisted []map[string]any
	if len(b.Children) > 0 {
		if depth < maxNestingDepth {
			payload["children"] = encodeBlocks(b.Children, depth+1)
		} else {
			hoisted = encodeBlocks(b.Children, depth)
		}
	}
	return map[string]any{
		"object":       "block",
		"type":         string(b.Kind),
		string(b.Kind): payload,
	}, hoisted
}

func encodeSpans(spans []Span) []wireRichText {
	out := make([]wireRichText, 0, len(spans))
	for _, s := range spans {
		for _, chunk := range chunkRunes(s.Text, maxRichTextRunes) {
			rt := wireRichText{Type: "text", Text: &wireText{Content: chunk}}
			if s.Link != "" {
				rt.Text.Link = &wireLink{URL: s.Link}
			}
			if s.Bold || s.Italic || s.Strike || s.Code {
				rt.Annotations = &wireAnnotations{Bold: s.Bold, Italic: s.Italic, Strikethrough: s.Strike, Code: s.Code}
			}
			out = append(out, rt)
		}
	}
	return out
}

func chunkRunes(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		n, i := 0, 0
		for i < len(s) && n < limit {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			n++
		}
		chunks = append(chunks, s[:i])
		s = s[i:]
	}
	return chunks
}
