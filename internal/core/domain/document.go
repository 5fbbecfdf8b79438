package domain

import "strings"

// Document aggregates the ordered chunks produced from a single
// source file. It exists as a retrieval convenience; the unit of
// storage and search is always the individual Chunk.
type Document struct {
	// FilePath is the repository-relative path of the source file.
	FilePath string

	// Metadata holds the file-level provenance shared by all chunks.
	Metadata map[string]any

	// Chunks are ordered by their chunk index within the file.
	Chunks []Chunk
}

// Content reassembles the document text by joining chunk contents
// in order. Overlapping regions are repeated; the result is a
// reading aid, not a byte-exact reconstruction.
func (d Document) Content() string {
	parts := make([]string, len(d.Chunks))
	for i, c := range d.Chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n")
}
