package processors

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// Pipeline is the shared flow for content-bearing processors:
// validate, chunkify, persist, account.
type Pipeline struct {
	store driven.ChunkStore
	log   *slog.Logger
}

// NewPipeline creates a pipeline writing through the given store.
func NewPipeline(store driven.ChunkStore, log *slog.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{store: store, log: log}
}

// Run processes one file through p and reports success. Failure is
// an outcome, not an error: blank content, an extension p does not
// claim, zero produced chunks, or a persisted minority all surface
// as false and are counted by the caller.
//
// Success requires strictly more than half of the produced chunks
// to have been persisted.
func (pl *Pipeline) Run(ctx context.Context, p driven.Processor, content, filePath string, metadata map[string]any) bool {
	if strings.TrimSpace(content) == "" {
		pl.log.Debug("skipping file with empty content", "file", filePath)
		return false
	}
	if !Supports(p, filePath) {
		pl.log.Debug("extension not claimed by processor", "file", filePath)
		return false
	}

	chunks := p.Chunkify(ctx, content, filePath, metadata)
	if len(chunks) == 0 {
		pl.log.Warn("no chunks produced", "file", filePath)
		return false
	}

	saved, err := pl.store.SaveChunks(ctx, chunks)
	if err != nil {
		pl.log.Error("chunk persistence failed", "file", filePath, "error", err)
	}

	if len(saved) <= len(chunks)/2 {
		pl.log.Warn("persisted too few chunks",
			"file", filePath, "saved", len(saved), "total", len(chunks))
		return false
	}

	pl.log.Info("processed file", "file", filePath, "chunks", len(chunks), "saved", len(saved))
	return true
}

// Supports reports whether p claims the file's extension.
// Extension comparison is case-insensitive.
func Supports(p driven.Processor, filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range p.Extensions() {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
