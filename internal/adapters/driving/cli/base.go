package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

var baseCmd = &cobra.Command{
	Use:   "base",
	Short: "Manage document bases",
	Long:  `Create, list, rename, inspect and delete document bases.`,
}

var baseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List document bases",
	Args:  cobra.NoArgs,
	RunE:  runBaseList,
}

var baseCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a document base",
	Long: `Creates an empty document base bound to an embedding provider and model.

The provider and model default to the configured embedding settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runBaseCreate,
}

var baseShowCmd = &cobra.Command{
	Use:   "show [base]",
	Short: "Show a document base and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaseShow,
}

var baseRenameCmd = &cobra.Command{
	Use:   "rename [base] [name]",
	Short: "Rename a document base",
	Args:  cobra.ExactArgs(2),
	RunE:  runBaseRename,
}

var baseDeleteCmd = &cobra.Command{
	Use:   "delete [base]",
	Short: "Delete a document base and its vectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaseDelete,
}

var (
	baseListJSON bool
	baseEngine   string
	baseModel    string
)

func init() {
	baseListCmd.Flags().BoolVar(&baseListJSON, "json", false, "output bases as JSON")
	baseCreateCmd.Flags().StringVar(&baseEngine, "engine", "", "embedding provider (ollama, openai, hashing)")
	baseCreateCmd.Flags().StringVar(&baseModel, "model", "", "embedding model")

	baseCmd.AddCommand(baseListCmd)
	baseCmd.AddCommand(baseCreateCmd)
	baseCmd.AddCommand(baseShowCmd)
	baseCmd.AddCommand(baseRenameCmd)
	baseCmd.AddCommand(baseDeleteCmd)
	rootCmd.AddCommand(baseCmd)
}

// baseSummary is the JSON form of a base in listings.
type baseSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Engine    string `json:"engine"`
	Model     string `json:"model"`
	Documents int    `json:"documents"`
}

func runBaseList(cmd *cobra.Command, _ []string) error {
	repo, err := getRepository(cmd.Context())
	if err != nil {
		return err
	}

	bases, err := repo.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list bases: %w", err)
	}

	if baseListJSON {
		summaries := make([]baseSummary, 0, len(bases))
		for i := range bases {
			summaries = append(summaries, baseSummary{
				ID:        bases[i].UUID,
				Name:      bases[i].Name,
				Engine:    bases[i].EmbeddingEngine,
				Model:     bases[i].EmbeddingModel,
				Documents: len(bases[i].Documents),
			})
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal bases: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(bases) == 0 {
		cmd.Println("No document bases. Create one with 'docbase base create <name>'.")
		return nil
	}

	for i := range bases {
		cmd.Printf("  %s\n", bases[i].Name)
		cmd.Printf("    ID:        %s\n", bases[i].UUID)
		cmd.Printf("    Embedding: %s (%s)\n", bases[i].EmbeddingEngine, bases[i].EmbeddingModel)
		cmd.Printf("    Documents: %d\n", len(bases[i].Documents))
		cmd.Println()
	}
	cmd.Printf("Total: %d bases\n", len(bases))
	return nil
}

func runBaseCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}

	engine, model := baseEngine, baseModel
	if engine == "" {
		settings, err := getSettingsService(ctx)
		if err != nil {
			return err
		}
		current, err := settings.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		engine = current.Embedding.Provider.String()
		if model == "" {
			model = current.Embedding.Model
		}
	}
	if engine == "" {
		return errors.New("no embedding provider configured: pass --engine or run 'docbase settings embedding'")
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[domain.AIProvider(engine)]
	}

	id, err := repo.Create(ctx, args[0], engine, model)
	if err != nil {
		return fmt.Errorf("failed to create base: %w", err)
	}

	cmd.Printf("Created base %q\n", args[0])
	cmd.Printf("  ID: %s\n", id)
	if !repo.IsEmbeddingAvailable(engine, model) {
		cmd.Printf("Warning: embedding %s (%s) is not available; documents cannot be added yet.\n", engine, model)
	}
	return nil
}

func runBaseShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Base: %s\n\n", base.Name)
	cmd.Printf("  ID:        %s\n", base.UUID)
	cmd.Printf("  Embedding: %s (%s)\n", base.EmbeddingEngine, base.EmbeddingModel)
	cmd.Printf("  Created:   %s\n", base.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:   %s\n", base.UpdatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	printDocuments(cmd, base.Documents)
	return nil
}

func runBaseRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	if err := repo.Rename(ctx, base.UUID, args[1]); err != nil {
		return fmt.Errorf("failed to rename base: %w", err)
	}
	cmd.Printf("Renamed %q to %q\n", base.Name, args[1])
	return nil
}

func runBaseDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, base.UUID); err != nil {
		return fmt.Errorf("failed to delete base: %w", err)
	}
	cmd.Printf("Deleted base %q\n", base.Name)
	return nil
}

// resolveBase finds a base by uuid or by its unique name.
func resolveBase(ctx context.Context, repo driving.Repository, ref string) (*domain.DocumentBase, error) {
	bases, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bases: %w", err)
	}

	var match *domain.DocumentBase
	for i := range bases {
		if bases[i].UUID == ref {
			return repo.Get(ctx, ref)
		}
		if bases[i].Name == ref {
			if match != nil {
				return nil, fmt.Errorf("%w: several bases are named %q, use the id", domain.ErrInvalidInput, ref)
			}
			match = &bases[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("base %s: %w", ref, domain.ErrNotFound)
	}
	return repo.Get(ctx, match.UUID)
}

func printDocuments(cmd *cobra.Command, docs []domain.DocumentSource) {
	if len(docs) == 0 {
		cmd.Println("No documents.")
		return
	}

	cmd.Println("Documents:")
	for _, doc := range docs {
		cmd.Printf("  [%s] %s\n", doc.Type(), doc.Title())
		cmd.Printf("      ID:     %s\n", doc.ID())
		cmd.Printf("      Origin: %s\n", doc.Origin())
		if doc.Type() == domain.SourceTypeFolder {
			cmd.Printf("      Files:  %d\n", len(doc.Children()))
		}
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
}
