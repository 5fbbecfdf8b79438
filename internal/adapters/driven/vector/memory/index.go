// Package memory provides an in-process vector index for tests and
// one-off local use. Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/mathutil"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors in a map and answers queries by exact scan.
type Index struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{records: make(map[string]driven.VectorRecord)}
}

// PutVectors upserts records keyed by chunk source.
func (ix *Index) PutVectors(_ context.Context, records []driven.VectorRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, record := range records {
		if record.Key == "" {
			return fmt.Errorf("%w: record key must not be empty", domain.ErrInvalidInput)
		}
		ix.records[record.Key] = record
	}
	return nil
}

// Query scans every stored vector and returns the topK nearest by
// cosine distance.
func (ix *Index) Query(_ context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(ix.records))
	for _, record := range ix.records {
		hits = append(hits, driven.VectorHit{
			Key:      record.Key,
			Distance: mathutil.CosineDistance(vector, record.Embedding),
			Metadata: record.Metadata,
		})
	}
	ix.mu.RUnlock()

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
func (ix *Index) GetVector(_ context.Context, key string) (*driven.VectorRecord, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	record, ok := ix.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return &record, nil
}

// Len reports the number of stored records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// Ping always succeeds.
func (ix *Index) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}
