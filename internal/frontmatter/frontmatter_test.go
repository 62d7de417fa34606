package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("no frontmatter", func(t *testing.T) {
		doc, err := Split([]byte("# Title\n\nBody\n"))
		require.NoError(t, err)
		assert.False(t, doc.Had)
		assert.Equal(t, "# Title\n\nBody\n", string(doc.Body))
	})

	t.Run("with frontmatter", func(t *testing.T) {
		doc, err := Split([]byte("---\ntitle: Guide\n---\n# Heading\n"))
		require.NoError(t, err)
		assert.True(t, doc.Had)
		assert.Equal(t, "title: Guide\n", string(doc.Frontmatter))
		assert.Equal(t, "# Heading\n", string(doc.Body))
	})

	t.Run("empty frontmatter", func(t *testing.T) {
		doc, err := Split([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.True(t, doc.Had)
		assert.Empty(t, doc.Frontmatter)
		assert.Equal(t, "body", string(doc.Body))
	})

	t.Run("crlf newlines", func(t *testing.T) {
		doc, err := Split([]byte("---\r\ntitle: X\r\n---\r\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "\r\n", doc.Newline)
		assert.Equal(t, "body", string(doc.Body))
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		_, err := Split([]byte("---\ntitle: X\nbody"))
		require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	})
}

func TestTitle(t *testing.T) {
	title, ok := Title([]byte("---\ntitle: \"  Release Notes \"\n---\n# Other\n"))
	require.True(t, ok)
	assert.Equal(t, "Release Notes", title)

	_, ok = Title([]byte("# Plain\n"))
	assert.False(t, ok)

	_, ok = Title([]byte("---\nauthor: me\n---\n"))
	assert.False(t, ok)

	_, ok = Title([]byte("---\ntitle: [a, b]\n---\n"))
	assert.False(t, ok)
}
