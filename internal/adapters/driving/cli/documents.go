package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage the document library",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the library",
	RunE:  runDocumentsList,
}

var documentsAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Copy documents into the library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentsAdd,
}

var documentsRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a document from the library",
	Long: `Removes a document from the library by name.

The index is not rebuilt automatically; run "intellidoc index" to drop
the removed document's passages from search results.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsRemove,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsAddCmd)
	documentsCmd.AddCommand(documentsRemoveCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	docs, err := libraryService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing library: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("The library is empty. Add documents with \"intellidoc documents add <file>\".")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s (%s)\n", doc.Name, formatSize(doc.SizeBytes))
	}
	cmd.Printf("\n%d document(s)\n", len(docs))
	return nil
}

func runDocumentsAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	for _, arg := range args {
		info, err := libraryService.Add(cmd.Context(), arg)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				return fmt.Errorf("%s: unsupported document type", arg)
			case errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("%s: no such file", arg)
			default:
				return fmt.Errorf("adding %s: %w", arg, err)
			}
		}
		cmd.Printf("Added %s\n", info.Name)
	}

	cmd.Println("Run \"intellidoc index\" to make the new documents searchable.")
	return nil
}

func runDocumentsRemove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	name := args[0]
	if err := libraryService.Remove(cmd.Context(), name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document named %s in the library", name)
		}
		return fmt.Errorf("removing %s: %w", name, err)
	}

	cmd.Printf("Removed %s\n", name)
	return nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
