package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your indexed documents",
	Long: `Starts an interactive session answering questions from the indexed
documents. Conversation history is kept for the duration of the
session.

Commands inside the session:
  /history  show the conversation so far
  /reset    start over with a fresh conversation
  /quit     leave the session`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return fmt.Errorf("%w: set %s or configure llm.provider to enable chat", domain.ErrAPIKeyMissing, envGroqKey)
	}

	ctx := cmd.Context()
	sessionID := uuid.NewString()
	defer chatService.Reset(sessionID)

	cmd.Println("Ask a question about your documents. Type /quit to leave.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/reset":
			chatService.Reset(sessionID)
			sessionID = uuid.NewString()
			cmd.Println("Conversation cleared.")
			continue
		case line == "/history":
			printHistory(cmd, sessionID)
			continue
		}

		answer, err := chatService.Ask(ctx, sessionID, line)
		if err != nil {
			if msg := chatErrorMessage(err); msg != "" {
				cmd.Println(msg)
				continue
			}
			return fmt.Errorf("chat failed: %w", err)
		}

		cmd.Printf("\n%s\n\n", answer)
	}
}

func printHistory(cmd *cobra.Command, sessionID string) {
	turns, err := chatService.History(sessionID)
	if err != nil || len(turns) == 0 {
		cmd.Println("No conversation yet.")
		return
	}
	for _, turn := range turns {
		label := "You"
		if turn.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		cmd.Printf("%s: %s\n", label, turn.Content)
	}
}

// chatErrorMessage maps recoverable errors to a message printed inside
// the session loop. An empty string means the error should end the
// session.
func chatErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "No index found; build one first with \"intellidoc index\"."
	case errors.Is(err, domain.ErrInvalidInput):
		return "Please enter a question."
	}

	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		switch backendErr.Kind {
		case domain.BackendRateLimit:
			return "The model is rate limited right now; wait a moment and try again."
		case domain.BackendTimeout:
			return "The model took too long to answer; try again."
		case domain.BackendTransient:
			return "The model backend had a hiccup; try again."
		}
	}
	return ""
}
