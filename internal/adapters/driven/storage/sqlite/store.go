package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Store is the SQLite metadata database holding the document base registry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docbase/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// DefaultDataDir returns ~/.docbase/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docbase", "data"), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BaseStore returns a BaseStore interface backed by this store.
func (s *Store) BaseStore() driven.BaseStore {
	return &baseStore{store: s}
}

// openDatabase opens a SQLite file in WAL mode with foreign keys enabled.
func openDatabase(path string) (*sql.DB, error) {
	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations found at the root of fsys.
func migrate(db *sql.DB, fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Base Store ====================

// baseStore implements driven.BaseStore.
type baseStore struct {
	store *Store
}

var _ driven.BaseStore = (*baseStore)(nil)

// SaveBase stores or replaces a base together with its source tree.
func (s *baseStore) SaveBase(ctx context.Context, base *domain.DocumentBase) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bases (id, name, embedding_engine, embedding_model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			embedding_engine = excluded.embedding_engine,
			embedding_model = excluded.embedding_model,
			updated_at = excluded.updated_at
	`, base.UUID, base.Name, base.EmbeddingEngine, base.EmbeddingModel, base.CreatedAt, base.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving base: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE base_id = ?", base.UUID); err != nil {
		return fmt.Errorf("clearing sources: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sources (base_id, id, parent_id, type, origin, title, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing source insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range base.Documents {
		if _, err := stmt.ExecContext(ctx, base.UUID, doc.ID(), nil, string(doc.Type()), doc.Origin(), storedTitle(doc), i); err != nil {
			return fmt.Errorf("saving source %s: %w", doc.ID(), err)
		}
		for j, child := range doc.Children() {
			if _, err := stmt.ExecContext(ctx, base.UUID, child.ID(), doc.ID(), string(child.Type()), child.Origin(), child.ResolvedTitle, j); err != nil {
				return fmt.Errorf("saving source %s: %w", child.ID(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing base: %w", err)
	}
	return nil
}

// GetBase retrieves a base by uuid.
func (s *baseStore) GetBase(ctx context.Context, id string) (*domain.DocumentBase, error) {
	var base domain.DocumentBase
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, embedding_engine, embedding_model, created_at, updated_at
		FROM bases WHERE id = ?
	`, id).Scan(&base.UUID, &base.Name, &base.EmbeddingEngine, &base.EmbeddingModel, &base.CreatedAt, &base.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying base: %w", err)
	}

	docs, err := s.loadSources(ctx, id)
	if err != nil {
		return nil, err
	}
	base.Documents = docs
	return &base, nil
}

// ListBases returns all bases ordered by creation time.
func (s *baseStore) ListBases(ctx context.Context) ([]domain.DocumentBase, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, embedding_engine, embedding_model, created_at, updated_at
		FROM bases ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bases: %w", err)
	}

	var bases []domain.DocumentBase //nolint:prealloc // size unknown from query
	for rows.Next() {
		var base domain.DocumentBase
		if err := rows.Scan(&base.UUID, &base.Name, &base.EmbeddingEngine, &base.EmbeddingModel,
			&base.CreatedAt, &base.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning base: %w", err)
		}
		bases = append(bases, base)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating bases: %w", err)
	}
	rows.Close()

	for i := range bases {
		docs, err := s.loadSources(ctx, bases[i].UUID)
		if err != nil {
			return nil, err
		}
		bases[i].Documents = docs
	}
	return bases, nil
}

// DeleteBase removes a base and its source tree.
func (s *baseStore) DeleteBase(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE base_id = ?", id); err != nil {
		return fmt.Errorf("deleting sources: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bases WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting base: %w", err)
	}
	return tx.Commit()
}

// loadSources rebuilds the ordered source tree of a base.
func (s *baseStore) loadSources(ctx context.Context, baseID string) ([]domain.DocumentSource, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, parent_id, type, origin, title
		FROM sources WHERE base_id = ?
		ORDER BY parent_id IS NOT NULL, position
	`, baseID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentSource
	containers := make(map[string]*domain.Container)
	for rows.Next() {
		var id, sourceType, origin, title string
		var parentID sql.NullString
		if err := rows.Scan(&id, &parentID, &sourceType, &origin, &title); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		if parentID.Valid {
			parent, ok := containers[parentID.String]
			if !ok {
				return nil, fmt.Errorf("source %s references unknown folder %s", id, parentID.String)
			}
			leaf := domain.NewLeaf(id, domain.SourceType(sourceType), origin)
			leaf.SetTitle(title)
			parent.AddItem(leaf)
			continue
		}

		src, err := domain.NewSource(id, domain.SourceType(sourceType), origin)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", id, err)
		}
		switch v := src.(type) {
		case *domain.Leaf:
			v.SetTitle(title)
		case *domain.Container:
			containers[id] = v
		}
		docs = append(docs, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return docs, nil
}

// storedTitle returns the resolved title of a leaf; containers derive theirs.
func storedTitle(doc domain.DocumentSource) string {
	if leaf, ok := doc.(*domain.Leaf); ok {
		return leaf.ResolvedTitle
	}
	return ""
}
