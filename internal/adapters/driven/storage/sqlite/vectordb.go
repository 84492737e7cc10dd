package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// vectorsFile is the database file name inside a base directory.
const vectorsFile = "vectors.db"

var (
	_ driven.VectorStoreConnector = (*Connector)(nil)
	_ driven.VectorStore          = (*VectorDB)(nil)
)

// Connector opens per-base vector databases under <dataDir>/docbases/<uuid>/.
type Connector struct {
	dataDir string
}

// NewConnector creates a connector rooted at dataDir.
// If dataDir is empty, defaults to ~/.docbase/data.
func NewConnector(dataDir string) (*Connector, error) {
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	return &Connector{dataDir: dataDir}, nil
}

// databasePath returns the vector database file of a base.
func (c *Connector) databasePath(storeID string) (string, error) {
	dir, err := c.baseDir(storeID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, vectorsFile), nil
}

// Connect opens or creates the vector database of a base.
func (c *Connector) Connect(_ context.Context, storeID string) (driven.VectorStore, error) {
	path, err := c.databasePath(storeID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating vector directory: %w", err)
	}

	db, err := openDatabase(path)
	if err != nil {
		return nil, err
	}

	sub, err := fs.Sub(migrations.VectorFS, "vectors")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening vector migrations: %w", err)
	}
	if err := migrate(db, sub); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &VectorDB{db: db}, nil
}

// Drop removes the vector database directory of a base.
func (c *Connector) Drop(_ context.Context, storeID string) error {
	dir, err := c.baseDir(storeID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing vector directory: %w", err)
	}
	return nil
}

func (c *Connector) baseDir(storeID string) (string, error) {
	if storeID == "" || storeID == "." || storeID == ".." || strings.ContainsAny(storeID, `/\`) {
		return "", fmt.Errorf("%w: store id %q", domain.ErrInvalidInput, storeID)
	}
	return filepath.Join(c.dataDir, "docbases", storeID), nil
}

// VectorDB is a handle on one base's vector database. Chunks are stored
// as rows with little-endian float32 embeddings; queries rank every row
// by cosine similarity.
type VectorDB struct {
	db *sql.DB
	tx *sql.Tx
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (v *VectorDB) conn() execer {
	if v.tx != nil {
		return v.tx
	}
	return v.db
}

// BeginTransaction opens a write transaction.
func (v *VectorDB) BeginTransaction(ctx context.Context) error {
	if v.tx != nil {
		return errors.New("transaction already open")
	}
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	v.tx = tx
	return nil
}

// CommitTransaction commits the open transaction.
func (v *VectorDB) CommitTransaction(_ context.Context) error {
	if v.tx == nil {
		return errors.New("no open transaction")
	}
	tx := v.tx
	v.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Insert stores one chunk row.
func (v *VectorDB) Insert(ctx context.Context, sourceUUID, content string, vector []float32, meta domain.ChunkMetadata) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	_, err = v.conn().ExecContext(ctx, `
		INSERT INTO chunks (source_uuid, content, embedding, metadata)
		VALUES (?, ?, ?, ?)
	`, sourceUUID, content, float32SliceToBytes(vector), string(metaJSON))
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// Delete removes every row of a leaf.
func (v *VectorDB) Delete(ctx context.Context, sourceUUID string) error {
	if _, err := v.conn().ExecContext(ctx, "DELETE FROM chunks WHERE source_uuid = ?", sourceUUID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// Query returns the k rows most similar to vector.
func (v *VectorDB) Query(ctx context.Context, vector []float32, k int) ([]domain.QueryResult, error) {
	rows, err := v.conn().QueryContext(ctx, "SELECT content, embedding, metadata FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []similarity.Candidate
	for rows.Next() {
		var c similarity.Candidate
		var blob []byte
		var metaJSON string
		if err := rows.Scan(&c.Content, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &c.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		c.Vector = bytesToFloat32Slice(blob)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return similarity.TopK(vector, candidates, k), nil
}

// Close rolls back any open transaction and closes the database.
func (v *VectorDB) Close() error {
	if v.tx != nil {
		_ = v.tx.Rollback()
		v.tx = nil
	}
	return v.db.Close()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return []byte{}
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
