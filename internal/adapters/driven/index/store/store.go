package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/index/store/migrations"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store persists vector indexes under a directory. Each named index
// occupies two files: <name>.db and <name>.toml. Both are staged under
// temporary names during a save and renamed into place, so readers
// never observe a half-written index.
type Store struct {
	dir string
}

// NewStore creates an index store rooted at dir. If dir is empty it
// defaults to ~/.intellidoc/indexes.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".intellidoc", "indexes")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory indexes are persisted under.
func (s *Store) Dir() string {
	return s.dir
}

// Build constructs an in-memory index from passages and their vectors.
func (s *Store) Build(passages []domain.Passage, vectors [][]float32, cfg domain.EmbeddingConfig) (driven.VectorIndex, error) {
	if len(passages) != len(vectors) {
		return nil, fmt.Errorf("%d passages but %d vectors: %w",
			len(passages), len(vectors), domain.ErrInvalidInput)
	}

	indexed := make([]domain.Passage, len(passages))
	for i, p := range passages {
		if len(vectors[i]) != cfg.Dimensions {
			return nil, fmt.Errorf("vector %d has %d dimensions, expected %d: %w",
				i, len(vectors[i]), cfg.Dimensions, domain.ErrInvalidInput)
		}
		p.Embedding = vectors[i]
		indexed[i] = p
	}

	return newIndex(indexed, cfg), nil
}

// Save persists the index under the given name, replacing any previous
// artifacts.
func (s *Store) Save(ctx context.Context, name string, index driven.VectorIndex) error {
	if err := validateName(name); err != nil {
		return err
	}

	dbTmp := filepath.Join(s.dir, name+".db.tmp")
	cfgTmp := filepath.Join(s.dir, name+".toml.tmp")
	defer os.Remove(dbTmp)
	defer os.Remove(cfgTmp)

	if err := s.writeDatabase(ctx, dbTmp, index.Passages()); err != nil {
		return err
	}

	cfgBytes, err := toml.Marshal(index.Config())
	if err != nil {
		return fmt.Errorf("marshalling embedding config: %w", err)
	}
	if err := os.WriteFile(cfgTmp, cfgBytes, 0600); err != nil {
		return fmt.Errorf("writing embedding config: %w", err)
	}

	// Both artifacts are staged; swap them into place
	if err := os.Rename(dbTmp, filepath.Join(s.dir, name+".db")); err != nil {
		return fmt.Errorf("replacing index database: %w", err)
	}
	if err := os.Rename(cfgTmp, filepath.Join(s.dir, name+".toml")); err != nil {
		return fmt.Errorf("replacing embedding config: %w", err)
	}
	return nil
}

// Load reads the index persisted under name and validates it against
// the expected embedding configuration.
func (s *Store) Load(ctx context.Context, name string, expect domain.EmbeddingConfig) (driven.VectorIndex, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(s.dir, name+".db")
	cfgPath := filepath.Join(s.dir, name+".toml")
	for _, path := range []string{dbPath, cfgPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("index %q: %w", name, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("checking index artifact: %w", err)
		}
	}

	cfgBytes, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("reading embedding config: %w", err)
	}
	var cfg domain.EmbeddingConfig
	if err := toml.Unmarshal(cfgBytes, &cfg); err != nil {
		return nil, fmt.Errorf("index %q: unreadable embedding config: %w", name, domain.ErrCorruptIndex)
	}
	if !cfg.Compatible(expect) {
		return nil, fmt.Errorf("index %q built with model %s (%d dims, v%d), expected %s (%d dims, v%d): %w",
			name, cfg.Model, cfg.Dimensions, cfg.FormatVersion,
			expect.Model, expect.Dimensions, expect.FormatVersion,
			domain.ErrCorruptIndex)
	}

	passages, err := s.readDatabase(ctx, dbPath, cfg.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", name, err)
	}

	return newIndex(passages, cfg), nil
}

// Exists reports whether both artifacts are present for name.
func (s *Store) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	for _, suffix := range []string{".db", ".toml"} {
		if _, err := os.Stat(filepath.Join(s.dir, name+suffix)); err != nil {
			return false
		}
	}
	return true
}

// writeDatabase creates a fresh SQLite database at path and writes all
// passages in a single transaction.
func (s *Store) writeDatabase(ctx context.Context, path string, passages []domain.Passage) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing stale staging file: %w", err)
	}

	db, err := openDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (seq, id, document_id, content, position, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range passages {
		blob := float32SliceToBytes(p.Embedding)
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.DocumentID, p.Content, p.Position, blob); err != nil {
			return fmt.Errorf("saving passage %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// readDatabase loads all passages in insertion order, validating each
// embedding blob against the expected dimension count.
func (s *Store) readDatabase(ctx context.Context, path string, dimensions int) ([]domain.Passage, error) {
	db, err := openDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrCorruptIndex)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding
		FROM passages ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %v: %w", err, domain.ErrCorruptIndex)
	}
	defer rows.Close()

	var passages []domain.Passage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Passage
		var blob []byte
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Content, &p.Position, &blob); err != nil {
			return nil, fmt.Errorf("scanning passage: %v: %w", err, domain.ErrCorruptIndex)
		}
		if len(blob) != dimensions*4 {
			return nil, fmt.Errorf("passage %s has a %d-byte embedding, expected %d: %w",
				p.ID, len(blob), dimensions*4, domain.ErrCorruptIndex)
		}
		p.Embedding = bytesToFloat32Slice(blob)
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading passages: %v: %w", err, domain.ErrCorruptIndex)
	}
	return passages, nil
}

// openDatabase opens a SQLite database and runs pending migrations.
func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys embed.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_passages.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// validateName rejects index names that would escape the store
// directory or collide with staging files.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fmt.Errorf("invalid index name %q: %w", name, domain.ErrInvalidInput)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
