package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Rebuild the document index",
	Long: `Rebuilds the vector index from the document library.

Files given as arguments are added to the library first and then
indexed together with the documents already in it. The previous index
keeps serving until the rebuild completes.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil || libraryService == nil {
		return errors.New("indexer not configured")
	}

	ctx := cmd.Context()

	newPaths := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := libraryService.Add(ctx, arg)
		if err != nil {
			return fmt.Errorf("adding %s: %w", arg, err)
		}
		newPaths = append(newPaths, info.Path)
	}

	existing, err := libraryService.Paths(ctx)
	if err != nil {
		return fmt.Errorf("listing library: %w", err)
	}

	result, err := indexerService.Rebuild(ctx, newPaths, existing)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCorpus):
			return errors.New("the library is empty; add documents first with \"intellidoc documents add\"")
		case errors.Is(err, domain.ErrNoContent):
			return errors.New("no text could be extracted from the library documents")
		case errors.Is(err, domain.ErrRebuildInProgress):
			return errors.New("another rebuild is already running; try again when it finishes")
		default:
			return fmt.Errorf("rebuild failed: %w", err)
		}
	}

	cmd.Printf("Indexed %d passages from %d documents", result.PassagesIndexed, result.FilesProcessed)
	if result.FilesSkipped > 0 {
		cmd.Printf(" (%d skipped)", result.FilesSkipped)
	}
	cmd.Println()
	return nil
}
