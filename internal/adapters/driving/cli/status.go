package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library and index status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	status, err := libraryService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	cmd.Printf("Documents: %d\n", status.Documents)
	if status.Ready {
		cmd.Println("Index:     ready")
	} else {
		cmd.Println("Index:     not built (run \"intellidoc index\")")
	}
	if chatService == nil {
		cmd.Printf("Chat:      disabled (set %s or configure llm.provider)\n", envGroqKey)
	} else {
		cmd.Println("Chat:      enabled")
	}
	return nil
}
