package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlText returns the visible text of an HTML fragment: tags and comments are
// dropped, entities decoded and whitespace collapsed. Script and style bodies
// are skipped.
func htmlText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	hidden := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				hidden++
			case blockTags[tag]:
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case (tag == "script" || tag == "style") && hidden > 0:
				hidden--
			case blockTags[tag]:
				sb.WriteByte(' ')
			}
		case html.TextToken:
			if hidden == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

// blockTags separate words when their markup is removed.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true, "td": true, "th": true,
	"summary": true, "details": true, "h1": true, "h2": true, "h3": true, "section": true,
}
