package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
)

func TestMemoryStoreSeparatesPagesFromBlocks(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()
	root := store.AddRoot("Docs")

	child, err := store.CreateChildPage(ctx, root, "repo")
	require.NoError(t, err)
	require.NoError(t, store.AppendBlocks(ctx, root, []Block{Paragraph("intro"), Paragraph("more")}))

	pages, err := store.ListChildPages(ctx, root)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, child.ID, pages[0].ID)

	blocks, err := store.ListBlocks(ctx, root)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "intro", blocks[0].PlainText())
	assert.NotEmpty(t, blocks[0].ID)

	require.NoError(t, store.RemoveBlock(ctx, root, blocks[0].ID))
	blocks, err = store.ListBlocks(ctx, root)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "more", blocks[0].PlainText())

	stats := store.Stats()
	assert.Equal(t, 1, stats.PagesCreated)
	assert.Equal(t, 1, stats.BlocksRemoved)
	assert.Equal(t, 2, stats.BlocksAppended)
	assert.Equal(t, 2, stats.Mutations())
}

func TestMemoryStoreAllowsDuplicateTitles(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()
	root := store.AddRoot("Docs")

	first, err := store.CreateChildPage(ctx, root, "same")
	require.NoError(t, err)
	second, err := store.CreateChildPage(ctx, root, "same")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	pages, err := store.ListChildPages(ctx, root)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, first.ID, pages[0].ID, "store order is creation order")
}

func TestMemoryStoreResolve(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()
	root := store.AddRoot("Docs")

	got, err := store.ResolvePage(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Docs", got.Title)

	_, err = store.ResolvePage(ctx, "missing")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRemote))
}

func TestMemoryStoreRemoveUnknownBlock(t *testing.T) {
	store := NewMemoryStore()
	root := store.AddRoot("Docs")
	err := store.RemoveBlock(t.Context(), root, "nope")
	require.Error(t, err)
}

func TestExtractID(t *testing.T) {
	const dashed = "01234567-89ab-cdef-0123-456789abcdef"
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"dashed id", dashed, dashed},
		{"compact id", "0123456789abcdef0123456789abcdef", dashed},
		{"uppercase", "0123456789ABCDEF0123456789ABCDEF", dashed},
		{"page url", "https://www.notion.so/acme/Engineering-Docs-0123456789abcdef0123456789abcdef", dashed},
		{"url with view", "https://www.notion.so/0123456789abcdef0123456789abcdef?v=123", dashed},
		{"opaque", "root", "root"},
		{"padded", "  root ", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractID(tt.ref))
		})
	}
}

func TestBlockPlainText(t *testing.T) {
	b := Block{Kind: KindParagraph, Spans: []Span{{Text: "File URL: "}, {Text: "docs/a.md", Link: "https://x/docs/a.md"}}}
	assert.Equal(t, "File URL: docs/a.md", b.PlainText())
	assert.Equal(t, "hi", Text(KindHeading1, "hi").PlainText())
}
