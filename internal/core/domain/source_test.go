package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSourceType_IsValid tests recognised and unknown source types
func TestSourceType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		typ      SourceType
		expected bool
	}{
		{"file", SourceTypeFile, true},
		{"url", SourceTypeURL, true},
		{"folder", SourceTypeFolder, true},
		{"empty", SourceType(""), false},
		{"unknown", SourceType("youtube"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.IsValid())
		})
	}
}

// TestParseSourceType tests parsing of user input
func TestParseSourceType(t *testing.T) {
	typ, err := ParseSourceType("folder")
	require.NoError(t, err)
	assert.Equal(t, SourceTypeFolder, typ)

	_, err = ParseSourceType("sitemap")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

// TestNewSource_Variants tests that NewSource builds the right variant
func TestNewSource_Variants(t *testing.T) {
	src, err := NewSource("id1", SourceTypeFile, "/tmp/a.txt")
	require.NoError(t, err)
	leaf, ok := src.(*Leaf)
	require.True(t, ok)
	assert.Equal(t, "id1", leaf.ID())
	assert.Equal(t, SourceTypeFile, leaf.Type())
	assert.Nil(t, leaf.Children())

	src, err = NewSource("id2", SourceTypeFolder, "/tmp/docs")
	require.NoError(t, err)
	container, ok := src.(*Container)
	require.True(t, ok)
	assert.Equal(t, SourceTypeFolder, container.Type())
	assert.Empty(t, container.Children())

	_, err = NewSource("id3", SourceType("ftp"), "ftp://host")
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, err = NewSource("", SourceTypeFile, "/tmp/a.txt")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

// TestLeaf_Title tests title fallback rules
func TestLeaf_Title(t *testing.T) {
	file := NewLeaf("f", SourceTypeFile, "/tmp/notes/a.txt")
	assert.Equal(t, "a.txt", file.Title())

	page := NewLeaf("u", SourceTypeURL, "https://example.com/page")
	assert.Equal(t, "https://example.com/page", page.Title())

	page.SetTitle("Example")
	assert.Equal(t, "Example", page.Title())
}

// TestContainer_Items tests adding and removing children
func TestContainer_Items(t *testing.T) {
	c := NewContainer("c", "/tmp/docs")
	assert.Equal(t, "docs", c.Title())

	c.AddItem(NewLeaf("a", SourceTypeFile, "/tmp/docs/a.txt"))
	c.AddItem(NewLeaf("b", SourceTypeFile, "/tmp/docs/b.txt"))
	assert.Equal(t, []string{"a", "b"}, c.ItemIDs())

	assert.True(t, c.RemoveItem("a"))
	assert.False(t, c.RemoveItem("a"))
	assert.Equal(t, []string{"b"}, c.ItemIDs())
}

// TestCloneSource tests that clones do not share children
func TestCloneSource(t *testing.T) {
	c := NewContainer("c", "/tmp/docs")
	c.AddItem(NewLeaf("a", SourceTypeFile, "/tmp/docs/a.txt"))

	clone, ok := CloneSource(c).(*Container)
	require.True(t, ok)
	clone.Items[0].SetTitle("changed")
	clone.AddItem(NewLeaf("b", SourceTypeFile, "/tmp/docs/b.txt"))

	assert.Len(t, c.Items, 1)
	assert.Equal(t, "a.txt", c.Items[0].Title())
}

// TestDocumentBase_Find tests lookup of top-level sources and children
func TestDocumentBase_Find(t *testing.T) {
	folder := NewContainer("folder", "/tmp/docs")
	folder.AddItem(NewLeaf("child", SourceTypeFile, "/tmp/docs/a.txt"))
	base := &DocumentBase{
		UUID:      "base",
		Documents: []DocumentSource{NewLeaf("leaf", SourceTypeURL, "https://example.com"), folder},
	}

	assert.Equal(t, 1, base.IndexOf("folder"))
	assert.Equal(t, -1, base.IndexOf("child"))

	found, ok := base.Find("child")
	require.True(t, ok)
	assert.Equal(t, "/tmp/docs/a.txt", found.Origin())

	_, ok = base.Find("missing")
	assert.False(t, ok)

	clone := base.Clone()
	clone.Documents = clone.Documents[:1]
	assert.Len(t, base.Documents, 2)
}
