package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Document Command Tests

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range documentCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"add", "remove", "list"}, names)
}

func TestDocumentAdd_DetectsFile(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	repo.addBase("b1", "research")
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	out, err := runCmd(t, "document", "add", "research", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Added file "+path)
	assert.Contains(t, out, "ID: doc-1")
	require.Len(t, repo.added, 1)
	assert.Equal(t, addCall{baseID: "b1", sourceType: domain.SourceTypeFile, origin: path}, repo.added[0])
}

func TestDocumentAdd_DetectsFolderAndURL(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	repo.addBase("b1", "research")
	dir := t.TempDir()

	_, err := runCmd(t, "document", "add", "b1", dir)
	require.NoError(t, err)
	_, err = runCmd(t, "document", "add", "b1", "https://example.com/page")
	require.NoError(t, err)

	require.Len(t, repo.added, 2)
	assert.Equal(t, domain.SourceTypeFolder, repo.added[0].sourceType)
	assert.Equal(t, domain.SourceTypeURL, repo.added[1].sourceType)
	assert.Equal(t, "https://example.com/page", repo.added[1].origin)
}

func TestDocumentAdd_ExplicitType(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	repo.addBase("b1", "research")

	_, err := runCmd(t, "document", "add", "b1", "bogus", "--type", "pdf")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Empty(t, repo.added)
}

func TestDocumentAdd_PropagatesError(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	repo.addBase("b1", "research")
	repo.err = domain.ErrLoadFailure

	_, err := runCmd(t, "document", "add", "b1", "https://example.com")

	assert.ErrorIs(t, err, domain.ErrLoadFailure)
}

func TestDocumentRemove(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	repo.addBase("b1", "research")

	out, err := runCmd(t, "document", "remove", "b1", "doc-9")

	require.NoError(t, err)
	assert.Contains(t, out, "Removed document doc-9")
	assert.Equal(t, []string{"doc-9"}, repo.removed)
}

func TestDocumentList(t *testing.T) {
	repo, _, cleanup := setupTestServices()
	defer cleanup()
	page := domain.NewLeaf("u1", domain.SourceTypeURL, "https://example.com")
	page.SetTitle("Example Domain")
	repo.addBase("b1", "research", page)

	out, err := runCmd(t, "document", "list", "b1")

	require.NoError(t, err)
	assert.Contains(t, out, "[url] Example Domain")
	assert.Contains(t, out, "Origin: https://example.com")
}

func TestDetectSource(t *testing.T) {
	dir := t.TempDir()

	sourceType, origin, err := detectSource("", "HTTPS://example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeURL, sourceType)
	assert.Equal(t, "HTTPS://example.com", origin)

	sourceType, origin, err = detectSource("", dir)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeFolder, sourceType)
	assert.Equal(t, dir, origin)

	sourceType, origin, err = detectSource("", "relative.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeFile, sourceType)
	assert.True(t, filepath.IsAbs(origin))

	sourceType, _, err = detectSource("url", "example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeURL, sourceType)
}
