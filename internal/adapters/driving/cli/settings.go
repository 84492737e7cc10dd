package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, chunking and ingestion limits.

Settings are stored in config.toml in the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the default embedding provider for new document bases.

Without --provider an interactive prompt is shown.`,
	RunE: runSettingsEmbedding,
}

var settingsSplitterCmd = &cobra.Command{
	Use:   "splitter [strategy]",
	Short: "Configure chunking",
	Long: `Set the chunking strategy used when documents are added.

Available strategies:
  fixed     - Windows of --chunk-size characters sharing --overlap characters
  sentence  - Groups of whole sentences`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSplitter,
}

var settingsRAGCmd = &cobra.Command{
	Use:   "rag",
	Short: "Configure ingestion limits and batching",
	RunE:  runSettingsRAG,
}

var (
	embeddingProvider string
	embeddingModel    string
	embeddingAPIKey   string
	splitterChunkSize int
	splitterOverlap   int
	ragMaxSizeMB      int
	ragAddEvery       int
	ragDeleteEvery    int
)

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&embeddingProvider, "provider", "", "embedding provider (ollama, openai, hashing)")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingModel, "model", "", "embedding model")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingAPIKey, "api-key", "", "API key for cloud providers")

	settingsSplitterCmd.Flags().IntVar(&splitterChunkSize, "chunk-size", 0, "chunk size in characters (fixed strategy)")
	settingsSplitterCmd.Flags().IntVar(&splitterOverlap, "overlap", domain.DefaultChunkOverlap, "overlap in characters (fixed strategy)")

	settingsRAGCmd.Flags().IntVar(&ragMaxSizeMB, "max-size-mb", 0, "largest document accepted, in MiB")
	settingsRAGCmd.Flags().IntVar(&ragAddEvery, "add-commit-every", 0, "files indexed per folder commit")
	settingsRAGCmd.Flags().IntVar(&ragDeleteEvery, "delete-commit-every", 0, "documents removed per delete commit")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsSplitterCmd)
	settingsCmd.AddCommand(settingsRAGCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService(cmd.Context())
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if settings.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.2f requests/s\n", settings.Embedding.RequestsPerSecond)
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Splitter settings
	cmd.Println("[Splitter]")
	cmd.Printf("  Strategy: %s\n", settings.Splitter.Strategy)
	switch settings.Splitter.Strategy {
	case domain.SplitterSentence:
		cmd.Printf("  Sentences per chunk: %d\n", settings.Splitter.SentencesPerChunk)
	default:
		cmd.Printf("  Chunk size: %d\n", settings.Splitter.ChunkSize)
		cmd.Printf("  Overlap: %d\n", settings.Splitter.Overlap)
	}
	cmd.Println()

	// Ingestion settings
	cmd.Println("[RAG]")
	cmd.Printf("  Max document size: %d MiB\n", settings.RAG.MaxDocumentSizeMB)
	cmd.Printf("  Add commit every: %d files\n", settings.RAG.AddCommitEvery)
	cmd.Printf("  Delete commit every: %d documents\n", settings.RAG.DeleteCommitEvery)
	cmd.Println()

	// Validation
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docbase settings embedding' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService(cmd.Context())
	if err != nil {
		return err
	}

	if embeddingProvider == "" {
		reader := bufio.NewReader(cmd.InOrStdin())
		return configureEmbeddingProvider(cmd, svc, reader)
	}

	provider := domain.AIProvider(strings.ToLower(embeddingProvider))
	apiKey := embeddingAPIKey
	if provider.RequiresAPIKey() && apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := svc.SetEmbeddingProvider(provider, embeddingModel, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), settings.Embedding.Model)
	return validateEmbedding(cmd, svc)
}

// validateEmbedding checks the saved provider answers before reporting success.
func validateEmbedding(cmd *cobra.Command, svc driving.SettingsService) error {
	cmd.Print("Validating configuration... ")
	if err := svc.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("embedding provider unreachable: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, svc driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := svc.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return validateEmbedding(cmd, svc)
}

func runSettingsSplitter(cmd *cobra.Command, args []string) error {
	svc, err := getSettingsService(cmd.Context())
	if err != nil {
		return err
	}

	strategy := domain.SplitterStrategy(strings.ToLower(args[0]))
	if err := svc.SetSplitter(strategy, splitterChunkSize, splitterOverlap); err != nil {
		return fmt.Errorf("failed to configure splitter: %w", err)
	}

	cmd.Printf("Splitter set to: %s\n", strategy)
	return nil
}

func runSettingsRAG(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService(cmd.Context())
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if ragMaxSizeMB > 0 {
		settings.RAG.MaxDocumentSizeMB = ragMaxSizeMB
	}
	if ragAddEvery > 0 {
		settings.RAG.AddCommitEvery = ragAddEvery
	}
	if ragDeleteEvery > 0 {
		settings.RAG.DeleteCommitEvery = ragDeleteEvery
	}

	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Max document size: %d MiB, add commit every %d, delete commit every %d\n",
		settings.RAG.MaxDocumentSizeMB, settings.RAG.AddCommitEvery, settings.RAG.DeleteCommitEvery)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal, otherwise a line from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
