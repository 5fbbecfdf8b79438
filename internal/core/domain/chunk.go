package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Chunk represents one retrievable unit of a source file.
// A chunk is immutable once built; derived quantities such as
// size and word count are computed on demand, never stored.
type Chunk struct {
	// ID is a surrogate identifier, unique within a crawl run.
	// It is NOT the storage key; Source is.
	ID string

	// Content is the chunk text.
	Content string

	// Source addresses the chunk within its file, in the form
	// "{file_path}#chunk-{index}". Re-processing the same file
	// reproduces the same keys, so writes overwrite rather than
	// accumulate.
	Source string

	// Metadata carries file provenance (file_path, sha, source URL)
	// plus the chunk_index within the file.
	Metadata map[string]any
}

// ChunkSource builds the deterministic storage key for the i-th
// chunk of a file.
func ChunkSource(filePath string, index int) string {
	return fmt.Sprintf("%s#chunk-%d", filePath, index)
}

// Size returns the chunk length in characters.
// Characters, not bytes: multi-byte runes count once.
func (c Chunk) Size() int {
	return utf8.RuneCountInString(c.Content)
}

// WordCount returns the number of whitespace-delimited words.
func (c Chunk) WordCount() int {
	return len(strings.Fields(c.Content))
}
