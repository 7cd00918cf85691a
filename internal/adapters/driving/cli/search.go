package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed documents",
	Long: `Searches the vector index and prints the best-matching passages
with their similarity scores. Useful for inspecting what the chat
command would use as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "k", 0, "number of passages to return (0 uses the configured default)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	query := strings.Join(args, " ")
	hits, err := retrieverService.Retrieve(cmd.Context(), query, searchTopK)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return errors.New("no index found; build one first with \"intellidoc index\"")
		case errors.Is(err, domain.ErrInvalidInput):
			return errors.New("query must not be empty")
		default:
			return fmt.Errorf("search failed: %w", err)
		}
	}

	if len(hits) == 0 {
		cmd.Println("No matching passages.")
		return nil
	}

	for i, hit := range hits {
		cmd.Printf("%d. [%.3f] %s #%d\n", i+1, hit.Score, hit.Passage.DocumentID, hit.Passage.Position)
		cmd.Printf("   %s\n\n", strings.TrimSpace(hit.Passage.Content))
	}
	return nil
}
