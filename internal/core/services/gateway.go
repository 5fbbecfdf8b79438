package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// DefaultEmbedWorkers bounds concurrent embedding calls per batch.
const DefaultEmbedWorkers = 4

// Ensure EmbeddingGateway implements the interface.
var _ driven.ChunkStore = (*EmbeddingGateway)(nil)

// EmbeddingGateway embeds chunk text and persists the vectors.
// Chunks whose embedding call fails are skipped; the rest go to the
// backend in a single batch write.
type EmbeddingGateway struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	workers  int
	log      *slog.Logger
}

// NewEmbeddingGateway creates a gateway writing through the given
// embedding service and vector index. workers bounds concurrent
// embedding calls; values below one fall back to the default.
func NewEmbeddingGateway(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	workers int,
	log *slog.Logger,
) *EmbeddingGateway {
	if workers < 1 {
		workers = DefaultEmbedWorkers
	}
	if log == nil {
		log = logger.Discard()
	}
	return &EmbeddingGateway{
		embedder: embedder,
		index:    index,
		workers:  workers,
		log:      log,
	}
}

// SaveChunks embeds every chunk and writes the vectors in one batch,
// returning the storage keys that made it into the write. Embedding
// runs on a bounded worker pool; all calls join before any key
// accounting so partial failures are counted exactly once.
func (g *EmbeddingGateway) SaveChunks(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, g.workers)
	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, content string) {
			defer wg.Done()
			defer func() { <-sem }()
			embeddings[i], errs[i] = g.embedder.Embed(ctx, content)
		}(i, chunk.Content)
	}
	wg.Wait()

	records := make([]driven.VectorRecord, 0, len(chunks))
	keys := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if errs[i] != nil {
			g.log.Error("embedding failed, skipping chunk",
				"source", chunk.Source, "error", errs[i])
			continue
		}
		records = append(records, driven.VectorRecord{
			Key:       chunk.Source,
			Embedding: embeddings[i],
			Metadata:  storedMetadata(chunk),
		})
		keys = append(keys, chunk.Source)
	}

	if len(records) == 0 {
		g.log.Warn("no vectors to save", "chunks", len(chunks))
		return nil, nil
	}

	if err := g.index.PutVectors(ctx, records); err != nil {
		return nil, fmt.Errorf("put vectors: %w", err)
	}

	g.log.Info("saved chunks", "saved", len(keys), "total", len(chunks))
	return keys, nil
}

// storedMetadata is the persisted view of a chunk: its own metadata
// plus the fields retrieval needs to rebuild a result.
func storedMetadata(chunk domain.Chunk) map[string]any {
	meta := make(map[string]any, len(chunk.Metadata)+3)
	for k, v := range chunk.Metadata {
		meta[k] = v
	}
	meta["content"] = chunk.Content
	meta["chunk_size"] = chunk.Size()
	meta["source"] = chunk.Source
	return meta
}
