package driven

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// ChunkStore embeds and persists chunks.
type ChunkStore interface {
	// SaveChunks writes the given chunks and returns the keys that
	// were actually persisted. A chunk whose embedding fails is
	// skipped, not fatal; a failed batch write returns no keys and
	// the write error. An empty input returns empty without
	// touching the backend.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) ([]string, error)
}
