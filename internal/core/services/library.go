package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.Library = (*LibraryService)(nil)

// LibraryService manages the corpus directory backing the index.
// It only touches files; index artifacts change on explicit rebuild.
type LibraryService struct {
	dataDir    string
	store      driven.IndexStore
	indexName  string
	extensions map[string]struct{}
}

// NewLibraryService creates a library over dataDir. Only files with
// extensions the loader handles count as corpus documents.
func NewLibraryService(dataDir string, loader driven.DocumentLoader, store driven.IndexStore, indexName string) (*LibraryService, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".intellidoc", "documents")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}
	if indexName == "" {
		indexName = DefaultIndexName
	}

	extensions := make(map[string]struct{})
	for _, ext := range loader.Extensions() {
		extensions[ext] = struct{}{}
	}

	return &LibraryService{
		dataDir:    dataDir,
		store:      store,
		indexName:  indexName,
		extensions: extensions,
	}, nil
}

// Dir returns the corpus directory.
func (s *LibraryService) Dir() string {
	return s.dataDir
}

// List returns the corpus files, sorted by name.
func (s *LibraryService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var docs []domain.DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() || !s.supported(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("Skipping %s: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, domain.DocumentInfo{
			Name:       entry.Name(),
			Path:       filepath.Join(s.dataDir, entry.Name()),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Add copies the file at srcPath into the corpus directory.
func (s *LibraryService) Add(ctx context.Context, srcPath string) (domain.DocumentInfo, error) {
	var info domain.DocumentInfo
	if err := ctx.Err(); err != nil {
		return info, err
	}

	name := filepath.Base(srcPath)
	if !s.supported(name) {
		return info, fmt.Errorf("unsupported file type %q: %w", filepath.Ext(name), domain.ErrInvalidInput)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return info, fmt.Errorf("%s: %w", srcPath, domain.ErrNotFound)
		}
		return info, fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(s.dataDir, name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return info, fmt.Errorf("creating corpus file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return info, fmt.Errorf("copying into corpus: %w", err)
	}

	stat, err := dst.Stat()
	if err != nil {
		return info, fmt.Errorf("checking corpus file: %w", err)
	}

	logger.Info("Added %s to corpus (%d bytes)", name, stat.Size())
	return domain.DocumentInfo{
		Name:       name,
		Path:       dstPath,
		SizeBytes:  stat.Size(),
		ModifiedAt: stat.ModTime(),
	}, nil
}

// Remove deletes the named corpus file. The index keeps serving the
// old content until the next rebuild.
func (s *LibraryService) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// filepath.Base passes "." and ".." through, and "." resolves to
	// the corpus directory itself.
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return fmt.Errorf("invalid document name %q: %w", name, domain.ErrInvalidInput)
	}

	path := filepath.Join(s.dataDir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %q: %w", name, domain.ErrNotFound)
		}
		return fmt.Errorf("removing document: %w", err)
	}

	logger.Info("Removed %s from corpus", name)
	return nil
}

// Paths returns the full paths of all corpus files.
func (s *LibraryService) Paths(ctx context.Context) ([]string, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.Path)
	}
	return paths, nil
}

// Status reports corpus size and whether index artifacts exist.
func (s *LibraryService) Status(ctx context.Context) (driving.IndexStatus, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return driving.IndexStatus{}, err
	}

	return driving.IndexStatus{
		Ready:     s.store.Exists(s.indexName),
		Documents: len(docs),
	}, nil
}

// supported reports whether the file extension is handled by the
// configured loader.
func (s *LibraryService) supported(name string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
