// Package markdown processes markdown files into overlapping,
// provenance-tagged chunks.
package markdown

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

// Processor handles markdown documents.
type Processor struct {
	pipe  *processors.Pipeline
	split *splitter.Splitter
}

// New creates a markdown processor segmenting with the given splitter.
// A nil splitter falls back to default sizes.
func New(pipe *processors.Pipeline, split *splitter.Splitter) *Processor {
	if split == nil {
		split = splitter.New()
	}
	return &Processor{pipe: pipe, split: split}
}

// Extensions returns the markdown flavours this processor handles.
func (p *Processor) Extensions() []string {
	return []string{".md", ".markdown", ".mdown", ".mkd", ".mdx"}
}

// Process runs the shared pipeline for one markdown file.
func (p *Processor) Process(ctx context.Context, content, filePath string, metadata map[string]any) bool {
	return p.pipe.Run(ctx, p, content, filePath, metadata)
}

// Chunkify splits markdown into chunks. Frontmatter is stripped
// before normalisation and segmentation; each chunk carries the
// file metadata plus its chunk_index, and the document title and
// heading outline when the file has headings.
func (p *Processor) Chunkify(_ context.Context, content, filePath string, metadata map[string]any) []domain.Chunk {
	body, _ := ExtractFrontmatter(content)
	text := Normalise(body)

	segments := p.split.Split(text)
	if len(segments) == 0 {
		return nil
	}

	title, headings := Outline(body)

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
		if title != "" {
			meta["title"] = title
		}
		if len(headings) > 0 {
			meta["headings"] = headings
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
