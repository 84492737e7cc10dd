package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents in a base",
	Long:  `Add, remove, or list the files, folders and web pages of a document base.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [base] [path-or-url]",
	Short: "Add a file, folder or URL to a base",
	Long: `Loads, splits and embeds a document into the base.

The type is detected from the argument: http(s) URLs become url sources,
directories become folder sources and everything else is a file. Folders
are indexed file by file; unreadable files are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentAdd,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [base] [doc-id]",
	Short: "Remove a document and its chunks from a base",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentRemove,
}

var documentListCmd = &cobra.Command{
	Use:   "list [base]",
	Short: "List the documents of a base",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

// documentType is a flag for the add command.
var documentType string

func init() {
	documentAddCmd.Flags().StringVarP(&documentType, "type", "t", "", "source type: file, folder or url (default: detect)")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentListCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	sourceType, origin, err := detectSource(documentType, args[1])
	if err != nil {
		return err
	}

	progress, finish := newProgress(cmd, "Indexing "+filepath.Base(origin))
	id, err := repo.AddDocument(ctx, base.UUID, sourceType, origin, progress)
	finish()
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added %s %s\n", sourceType, origin)
	cmd.Printf("  ID: %s\n", id)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	progress, finish := newProgress(cmd, "Removing "+args[1])
	err = repo.RemoveDocument(ctx, base.UUID, args[1], progress)
	finish()
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Removed document %s\n", args[1])
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	printDocuments(cmd, base.Documents)
	return nil
}

// detectSource resolves the source type of arg. Local paths are made absolute.
func detectSource(explicit, arg string) (domain.SourceType, string, error) {
	if explicit != "" {
		sourceType, err := domain.ParseSourceType(explicit)
		if err != nil {
			return "", "", err
		}
		if sourceType == domain.SourceTypeURL {
			return sourceType, arg, nil
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", "", fmt.Errorf("resolving path: %w", err)
		}
		return sourceType, abs, nil
	}

	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return domain.SourceTypeURL, arg, nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("resolving path: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return domain.SourceTypeFolder, abs, nil
	}
	return domain.SourceTypeFile, abs, nil
}
