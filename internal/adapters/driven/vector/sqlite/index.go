// Package sqlite provides a vector index stored in a local SQLite
// file. Queries are exact scans, which is plenty for wiki-sized
// corpora and keeps the backend dependency-free of any vector
// database service.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/vector/sqlite/migrations"
	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/mathutil"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a SQLite-backed vector index.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the index database at path, creating
// parent directories as needed.
func NewIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path must not be empty", domain.ErrInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for concurrent readers during a crawl.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ix := &Index{db: db, path: path}
	if err := ix.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return ix, nil
}

// Path returns the database file path.
func (ix *Index) Path() string {
	return ix.path
}

// PutVectors upserts records in one transaction.
func (ix *Index) PutVectors(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (key, embedding, metadata)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.Key == "" {
			return fmt.Errorf("%w: record key must not be empty", domain.ErrInvalidInput)
		}

		metadata, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", record.Key, err)
		}

		if _, err := stmt.ExecContext(ctx, record.Key, float32SliceToBytes(record.Embedding), string(metadata)); err != nil {
			return fmt.Errorf("upsert %s: %w", record.Key, err)
		}
	}

	return tx.Commit()
}

// Query scans every stored embedding and returns the topK nearest by
// cosine distance.
func (ix *Index) Query(ctx context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	rows, err := ix.db.QueryContext(ctx, "SELECT key, embedding, metadata FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var key string
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&key, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		metadata, err := decodeMetadata(metadataJSON)
		if err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", key, err)
		}

		hits = append(hits, driven.VectorHit{
			Key:      key,
			Distance: mathutil.CosineDistance(vector, bytesToFloat32Slice(blob)),
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Key < hits[j].Key
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// GetVector fetches a single record by key.
func (ix *Index) GetVector(ctx context.Context, key string) (*driven.VectorRecord, error) {
	var blob []byte
	var metadataJSON string

	row := ix.db.QueryRowContext(ctx, "SELECT embedding, metadata FROM chunks WHERE key = ?", key)
	if err := row.Scan(&blob, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	metadata, err := decodeMetadata(metadataJSON)
	if err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", key, err)
	}

	return &driven.VectorRecord{
		Key:       key,
		Embedding: bytesToFloat32Slice(blob),
		Metadata:  metadata,
	}, nil
}

// Count reports the number of stored chunks.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Ping validates the database is reachable.
func (ix *Index) Ping(ctx context.Context) error {
	return ix.db.PingContext(ctx)
}

// Close closes the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// migrate runs all pending migrations.
func (ix *Index) migrate(fsys embed.FS) error {
	_, err := ix.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := ix.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
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
		if _, err := ix.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := ix.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func decodeMetadata(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
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
