package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionsync/internal/notion"
)

func convert(t *testing.T, src string) []notion.Block {
	t.Helper()
	blocks, err := NewConverter(Options{}).Convert([]byte(src))
	require.NoError(t, err)
	return blocks
}

func kinds(blocks []notion.Block) []notion.Kind {
	out := make([]notion.Kind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func TestConvertHeadingsClampToThree(t *testing.T) {
	blocks := convert(t, "# One\n\n## Two\n\n### Three\n\n##### Five\n")
	assert.Equal(t, []notion.Kind{
		notion.KindHeading1, notion.KindHeading2, notion.KindHeading3, notion.KindHeading3,
	}, kinds(blocks))
	assert.Equal(t, "Five", blocks[3].PlainText())
}

func TestConvertParagraphInlineAnnotations(t *testing.T) {
	blocks := convert(t, "Plain **bold** *it* `code` ~~gone~~ [site](https://example.com).\n")
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, notion.KindParagraph, b.Kind)
	assert.Equal(t, "Plain bold it code gone site.", b.PlainText())

	byText := map[string]notion.Span{}
	for _, s := range b.Spans {
		byText[s.Text] = s
	}
	assert.True(t, byText["bold"].Bold)
	assert.True(t, byText["it"].Italic)
	assert.True(t, byText["code"].Code)
	assert.True(t, byText["gone"].Strike)
	assert.Equal(t, "https://example.com", byText["site"].Link)
}

func TestConvertSoftBreakBecomesSpace(t *testing.T) {
	blocks := convert(t, "line one\nline two\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one line two", blocks[0].PlainText())
}

func TestConvertNestedListsAndTasks(t *testing.T) {
	src := "- a\n  - a1\n- b\n\n1. first\n2. second\n\n- [x] done\n- [ ] todo\n"
	blocks := convert(t, src)
	require.Equal(t, []notion.Kind{
		notion.KindBulleted, notion.KindBulleted,
		notion.KindNumbered, notion.KindNumbered,
		notion.KindToDo, notion.KindToDo,
	}, kinds(blocks))

	require.Len(t, blocks[0].Children, 1)
	assert.Equal(t, "a1", blocks[0].Children[0].PlainText())
	assert.Equal(t, notion.KindBulleted, blocks[0].Children[0].Kind)

	assert.True(t, blocks[4].Checked)
	assert.Equal(t, "done", blocks[4].PlainText())
	assert.False(t, blocks[5].Checked)
}

func TestConvertCodeBlocks(t *testing.T) {
	blocks := convert(t, "```go\nfmt.Println(1)\n```\n\n    indented\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, notion.KindCode, blocks[0].Kind)
	assert.Equal(t, "go", blocks[0].Language)
	assert.Equal(t, "fmt.Println(1)", blocks[0].PlainText())
	assert.Equal(t, "", blocks[1].Language)
	assert.Equal(t, "indented", blocks[1].PlainText())
}

func TestConvertQuoteDividerTableHTML(t *testing.T) {
	src := "> quoted\n\n---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<div>raw</div>\n"
	blocks := convert(t, src)
	require.Equal(t, []notion.Kind{
		notion.KindQuote, notion.KindDivider, notion.KindParagraph, notion.KindParagraph, notion.KindParagraph,
	}, kinds(blocks))
	assert.Equal(t, "quoted", blocks[0].PlainText())
	assert.Equal(t, "a | b", blocks[2].PlainText())
	assert.True(t, blocks[2].Spans[0].Bold)
	assert.Equal(t, "1 | 2", blocks[3].PlainText())
	assert.Equal(t, "raw", blocks[4].PlainText())
}

func TestHTMLBlocksKeepVisibleTextOnly(t *testing.T) {
	src := "<details><summary>More</summary>Hidden &amp; shown</details>\n\n<!-- note -->\n\nText with <kbd>Ctrl</kbd> key.\n"
	blocks := convert(t, src)
	require.Len(t, blocks, 2)
	assert.Equal(t, "More Hidden & shown", blocks[0].PlainText())
	assert.Equal(t, "Text with Ctrl key.", blocks[1].PlainText())
}

func TestHTMLText(t *testing.T) {
	assert.Equal(t, "a b", htmlText("<p>a</p><p>b</p>"))
	assert.Equal(t, "ab", htmlText("<b>a</b>b"))
	assert.Empty(t, htmlText("<script>alert(1)</script><style>p{}</style>"))
	assert.Equal(t, "<x>", htmlText("&lt;x&gt;"))
}

func TestConvertDropsFrontmatterUnlessKept(t *testing.T) {
	src := "---\ntitle: Hello\n---\n# Body\n"
	blocks := convert(t, src)
	require.Len(t, blocks, 1)
	assert.Equal(t, notion.KindHeading1, blocks[0].Kind)

	kept, err := NewConverter(Options{KeepFrontmatter: true}).Convert([]byte(src))
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, notion.KindCode, kept[0].Kind)
	assert.Equal(t, "yaml", kept[0].Language)
	assert.Contains(t, kept[0].PlainText(), "title: Hello")
}

func TestConvertDocumentResolvesRelativeLinks(t *testing.T) {
	c := NewConverter(Options{})
	blocks, err := c.ConvertDocument([]byte("See [api](../api/index.md) and [x](ftp://host/file).\n"),
		"https://github.com/acme/repo/blob/main/docs/guide/intro.md")
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	var links []string
	for _, s := range blocks[0].Spans {
		links = append(links, s.Link)
	}
	assert.Contains(t, links, "https://github.com/acme/repo/blob/main/docs/api/index.md")
	assert.NotContains(t, links, "ftp://host/file")
	assert.Equal(t, "See api and x.", blocks[0].PlainText())
}

func TestResolveLink(t *testing.T) {
	base := "https://example.com/docs/a/page.md"
	tests := []struct {
		dest, base, want string
	}{
		{"https://go.dev", "", "https://go.dev"},
		{"mailto:me@example.com", "", "mailto:me@example.com"},
		{"other.md", base, "https://example.com/docs/a/other.md"},
		{"#section", base, "https://example.com/docs/a/page.md#section"},
		{"other.md", "", ""},
		{"javascript:alert(1)", base, ""},
		{"", base, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveLink(tt.dest, tt.base), tt.dest)
	}
}
