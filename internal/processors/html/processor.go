// Package html processes HTML pages by stripping markup down to
// readable text before chunking.
package html

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/processors"
	"github.com/custodia-labs/wikivec-cli/internal/splitter"
)

// Ensure Processor implements the interface.
var _ driven.Processor = (*Processor)(nil)

// Processor handles HTML documents.
type Processor struct {
	pipe  *processors.Pipeline
	split *splitter.Splitter
}

// New creates an HTML processor segmenting with the given splitter.
// A nil splitter falls back to default sizes.
func New(pipe *processors.Pipeline, split *splitter.Splitter) *Processor {
	if split == nil {
		split = splitter.New()
	}
	return &Processor{pipe: pipe, split: split}
}

// Extensions returns the HTML extensions this processor handles.
func (p *Processor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Process runs the shared pipeline for one HTML file.
func (p *Processor) Process(ctx context.Context, content, filePath string, metadata map[string]any) bool {
	return p.pipe.Run(ctx, p, content, filePath, metadata)
}

// Chunkify extracts the readable text from an HTML page and splits
// it into chunks. The page title and heading outline travel in each
// chunk's metadata alongside the file metadata and chunk_index.
func (p *Processor) Chunkify(_ context.Context, content, filePath string, metadata map[string]any) []domain.Chunk {
	pg, err := parse(content)
	if err != nil || pg.text == "" {
		return nil
	}

	segments := p.split.Split(pg.text)
	if len(segments) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(segments))
	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		meta := make(map[string]any, len(metadata)+3)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["chunk_index"] = i
		if pg.title != "" {
			meta["title"] = pg.title
		}
		if len(pg.headings) > 0 {
			meta["headings"] = pg.headings
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  segment,
			Source:   domain.ChunkSource(filePath, i),
			Metadata: meta,
		})
	}

	return chunks
}
