package cli

import (
	"bytes"
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
)

type stubIndexer struct {
	result domain.RebuildResult
	err    error
}

func (s *stubIndexer) Rebuild(_ context.Context, _, _ []string) (domain.RebuildResult, error) {
	return s.result, s.err
}

type stubRetriever struct {
	hits []domain.RetrievedPassage
	err  error
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedPassage, error) {
	return s.hits, s.err
}

type stubChat struct {
	answer string
	err    error
	turns  []domain.ChatTurn
}

func (s *stubChat) Ask(_ context.Context, _, _ string) (string, error) {
	return s.answer, s.err
}

func (s *stubChat) History(_ string) ([]domain.ChatTurn, error) {
	return s.turns, nil
}

func (s *stubChat) Reset(_ string) {}

type stubLibrary struct {
	docs      []domain.DocumentInfo
	addErr    error
	removeErr error
	status    driving.IndexStatus
}

func (s *stubLibrary) List(_ context.Context) ([]domain.DocumentInfo, error) {
	return s.docs, nil
}

func (s *stubLibrary) Add(_ context.Context, srcPath string) (domain.DocumentInfo, error) {
	if s.addErr != nil {
		return domain.DocumentInfo{}, s.addErr
	}
	return domain.DocumentInfo{Name: srcPath, Path: srcPath}, nil
}

func (s *stubLibrary) Remove(_ context.Context, _ string) error {
	return s.removeErr
}

func (s *stubLibrary) Paths(_ context.Context) ([]string, error) {
	paths := make([]string, len(s.docs))
	for i, doc := range s.docs {
		paths[i] = doc.Path
	}
	return paths, nil
}

func (s *stubLibrary) Status(_ context.Context) (driving.IndexStatus, error) {
	return s.status, nil
}

// setupTestServices swaps the package-level services for stubs and
// returns a cleanup restoring the originals.
func setupTestServices() func() {
	oldIndexer := indexerService
	oldRetriever := retrieverService
	oldChat := chatService
	oldLibrary := libraryService

	indexerService = &stubIndexer{result: domain.RebuildResult{FilesProcessed: 1, PassagesIndexed: 4}}
	retrieverService = &stubRetriever{hits: []domain.RetrievedPassage{
		{
			Passage: domain.Passage{ID: "p1", DocumentID: "handbook.pdf", Content: "The clinic is open weekdays.", Position: 0},
			Score:   0.91,
		},
	}}
	chatService = &stubChat{answer: "The clinic opens at 9am."}
	libraryService = &stubLibrary{
		docs:   []domain.DocumentInfo{{Name: "handbook.pdf", Path: "/corpus/handbook.pdf", SizeBytes: 2048}},
		status: driving.IndexStatus{Ready: true, Documents: 1},
	}

	return func() {
		indexerService = oldIndexer
		retrieverService = oldRetriever
		chatService = oldChat
		libraryService = oldLibrary
	}
}

// executeCommand runs the root command with the given args and returns
// the combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
