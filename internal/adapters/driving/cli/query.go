package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [base] [text]",
	Short: "Find the chunks most similar to a text",
	Long: `Embeds the text with the base's embedding model and returns the nearest
chunks by cosine similarity.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := getRepository(ctx)
	if err != nil {
		return err
	}
	base, err := resolveBase(ctx, repo, args[0])
	if err != nil {
		return err
	}

	results, err := repo.Query(ctx, base.UUID, args[1], queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	return outputQueryTable(cmd, results)
}

// queryResultJSON is the JSON form of one result.
type queryResultJSON struct {
	Content string               `json:"content"`
	Score   float64              `json:"score"`
	Source  domain.ChunkMetadata `json:"source"`
}

func outputQueryJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	out := make([]queryResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, queryResultJSON{Content: r.Content, Score: r.Score, Source: r.Metadata})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		title := r.Metadata.Title
		if title == "" {
			title = r.Metadata.URL
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.Score)
		if r.Metadata.URL != "" && r.Metadata.URL != title {
			cmd.Printf("      Source: %s\n", r.Metadata.URL)
		}
		cmd.Printf("      %s\n", snippet(r.Content, 200))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates to maxRunes.
func snippet(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}
