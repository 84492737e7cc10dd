package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  first  \nsecond"))

	assert.Equal(t, "first", readLine(reader))
	assert.Equal(t, "second", readLine(reader))
	assert.Equal(t, "", readLine(reader))
}

// Settings Command Tests

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range settingsCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"show", "embedding", "splitter", "rag"}, names)
}

func TestSettingsShow(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCmd(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: Feature hashing (offline)")
	assert.Contains(t, out, "Strategy: fixed")
	assert.Contains(t, out, "Chunk size: 1000")
	assert.Contains(t, out, "Max document size: 16 MiB")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_MasksKeyAndWarns(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	settings.settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-1234567890abcdef",
	}
	settings.settings.Splitter.Strategy = domain.SplitterSentence
	settings.validateErr = assert.AnError

	out, err := runCmd(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Sentences per chunk: 5")
	assert.Contains(t, out, "Warning:")
}

func TestSettingsEmbedding_Flags(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCmd(t, "settings", "embedding", "--provider", "Ollama")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.settings.Embedding.Model)
	assert.Contains(t, out, "Embedding provider configured: Ollama (local) (nomic-embed-text)")
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsEmbedding_ValidationFails(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	settings.embedErr = domain.ErrEmbeddingUnavailable

	out, err := runCmd(t, "settings", "embedding", "--provider", "ollama")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, out, "Validating configuration... FAILED")
	// The provider stays saved so the user can fix connectivity and retry.
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
}

func TestSettingsEmbedding_OpenAIKeyFromEnv(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	_, err := runCmd(t, "settings", "embedding", "--provider", "openai")

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.settings.Embedding.APIKey)
}

func TestSettingsEmbedding_Interactive(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("1\nall-minilm\n"))

	out, err := runCmd(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Select Embedding Provider")
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.settings.Embedding.Model)
}

func TestSettingsSplitter(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCmd(t, "settings", "splitter", "fixed", "--chunk-size", "500", "--overlap", "50")

	require.NoError(t, err)
	assert.Contains(t, out, "Splitter set to: fixed")
	assert.Equal(t, 500, settings.settings.Splitter.ChunkSize)
	assert.Equal(t, 50, settings.settings.Splitter.Overlap)
}

func TestSettingsSplitter_Invalid(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, "settings", "splitter", "semantic")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsRAG(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCmd(t, "settings", "rag", "--max-size-mb", "4", "--add-commit-every", "2")

	require.NoError(t, err)
	assert.Equal(t, 4, settings.settings.RAG.MaxDocumentSizeMB)
	assert.Equal(t, 2, settings.settings.RAG.AddCommitEvery)
	assert.Equal(t, domain.DefaultDeleteCommitEvery, settings.settings.RAG.DeleteCommitEvery)
	assert.Contains(t, out, "Max document size: 4 MiB")
}
