package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search <query>", searchCmd.Use)
}

func TestSearchCmd_HasTopFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
}

func TestSearchCmd_RendersHits(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("search", "clinic", "hours")

	assert.NoError(t, err)
	assert.Contains(t, out, "[0.910] handbook.pdf #0")
	assert.Contains(t, out, "The clinic is open weekdays.")
}

func TestSearchCmd_NoIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retrieverService = &stubRetriever{err: domain.ErrNotFound}

	_, err := executeCommand("search", "clinic")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no index found")
}

func TestSearchCmd_NoHits(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retrieverService = &stubRetriever{}

	out, err := executeCommand("search", "clinic")

	assert.NoError(t, err)
	assert.Contains(t, out, "No matching passages.")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}
