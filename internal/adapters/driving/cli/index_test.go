package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [file...]", indexCmd.Use)
}

func TestIndexCmd_ReportsResult(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index")

	assert.NoError(t, err)
	assert.Contains(t, out, "Indexed 4 passages from 1 documents")
}

func TestIndexCmd_ReportsSkippedFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &stubIndexer{result: domain.RebuildResult{FilesProcessed: 2, FilesSkipped: 1, PassagesIndexed: 7}}

	out, err := executeCommand("index")

	assert.NoError(t, err)
	assert.Contains(t, out, "(1 skipped)")
}

func TestIndexCmd_EmptyCorpus(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &stubIndexer{err: domain.ErrEmptyCorpus}
	libraryService = &stubLibrary{}

	_, err := executeCommand("index")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "library is empty")
}

func TestIndexCmd_RebuildInProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &stubIndexer{err: domain.ErrRebuildInProgress}

	_, err := executeCommand("index")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestIndexCmd_ErrorsWithoutServices(t *testing.T) {
	oldIndexer := indexerService
	indexerService = nil
	defer func() { indexerService = oldIndexer }()

	_, err := executeCommand("index")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
