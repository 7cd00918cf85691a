// Package cli provides the command-line interface for intellidoc.
// Commands are thin: they call the driving ports and render results,
// and all business logic stays in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging on stderr.
var verbose bool

// Services wired at startup. Commands check for nil so a partially
// configured environment still allows the commands that do work.
var (
	indexerService   driving.Indexer
	retrieverService driving.Retriever
	chatService      driving.Chat
	libraryService   driving.Library
)

var rootCmd = &cobra.Command{
	Use:   "intellidoc",
	Short: "Chat with your PDF documents",
	Long: `IntelliDoc indexes PDF documents and answers questions about them.

Add documents with "intellidoc documents add", build the index with
"intellidoc index", then ask questions with "intellidoc chat".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires the services and runs the root command.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	return rootCmd.Execute()
}
