package driven

import "context"

// VectorIndex stores embedded chunks and answers nearest-neighbour
// queries. Index construction and ANN internals belong to the
// backend; this port only moves records in and out.
type VectorIndex interface {
	// PutVectors upserts records keyed by chunk source.
	// Writing an existing key overwrites it.
	PutVectors(ctx context.Context, records []VectorRecord) error

	// Query returns the topK nearest records to the query vector,
	// with distances and stored metadata, nearest first.
	Query(ctx context.Context, vector []float32, topK int) ([]VectorHit, error)

	// GetVector fetches a single record by key.
	// Returns domain.ErrNotFound when the key does not exist.
	GetVector(ctx context.Context, key string) (*VectorRecord, error)

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored vector with its metadata.
type VectorRecord struct {
	// Key is the chunk source, "{file_path}#chunk-{index}".
	Key string

	// Embedding is the vector representation of the chunk.
	Embedding []float32

	// Metadata is stored verbatim and returned on query.
	Metadata map[string]any
}

// VectorHit is one query result.
type VectorHit struct {
	// Key is the stored record key.
	Key string

	// Distance is the backend-reported distance to the query.
	// Cosine backends report values in [0, 2]; smaller is nearer.
	Distance float64

	// Metadata is the stored metadata map.
	Metadata map[string]any
}
