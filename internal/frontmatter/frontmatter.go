// Package frontmatter separates optional YAML frontmatter from a Markdown body.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a Markdown file split into its frontmatter and body.
type Document struct {
	Frontmatter []byte // raw YAML without delimiters; nil when absent
	Body        []byte
	Had         bool
	Newline     string
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter line, Had is false and Body
// is the full input.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return doc, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		doc.Frontmatter = []byte{}
		doc.Body = content[start+len(open):]
		doc.Had = true
		return doc, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}

	doc.Frontmatter = content[start : start+idx+len(nl)]
	doc.Body = content[start+idx+len(closeSeq):]
	doc.Had = true
	return doc, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Title returns the trimmed `title` field of the document's frontmatter.
// ok is false when there is no frontmatter, it does not parse, or the field is
// missing or blank.
func Title(content []byte) (title string, ok bool) {
	doc, err := Split(content)
	if err != nil || !doc.Had {
		return "", false
	}
	fields, err := ParseYAML(doc.Frontmatter)
	if err != nil {
		return "", false
	}
	raw, isString := fields["title"].(string)
	if !isString {
		return "", false
	}
	title = strings.TrimSpace(raw)
	return title, title != ""
}

func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}
