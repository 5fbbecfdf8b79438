package driven

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// Processor turns one file's content into persisted chunks.
// Processors are routed by file extension through a capability
// table; there is exactly one processor per extension.
type Processor interface {
	// Extensions lists the file extensions this processor handles,
	// including the leading dot.
	Extensions() []string

	// Chunkify splits content into chunks carrying the given
	// provenance metadata. Stub processors return nil.
	Chunkify(ctx context.Context, content, filePath string, metadata map[string]any) []domain.Chunk

	// Process runs the full pipeline for one file and reports
	// success. It never returns an error: empty content, an
	// unsupported file, zero persisted chunks out of many, or a
	// failed majority all surface as false.
	Process(ctx context.Context, content, filePath string, metadata map[string]any) bool
}

// ProcessorRegistry routes files to the processor claiming their
// extension.
type ProcessorRegistry interface {
	// ForFile returns the processor for the file's extension, or
	// false when no processor claims it.
	ForFile(path string) (Processor, bool)

	// Extensions lists every claimed extension in sorted order.
	Extensions() []string
}
