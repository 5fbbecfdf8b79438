package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestChunkSource_Format tests the deterministic storage key layout
func TestChunkSource_Format(t *testing.T) {
	assert.Equal(t, "docs/intro.md#chunk-0", ChunkSource("docs/intro.md", 0))
	assert.Equal(t, "docs/intro.md#chunk-12", ChunkSource("docs/intro.md", 12))
	assert.Equal(t, "README.md#chunk-3", ChunkSource("README.md", 3))
}

// TestChunkSource_Deterministic tests that the same inputs always yield the same key
func TestChunkSource_Deterministic(t *testing.T) {
	a := ChunkSource("wiki/Home.md", 4)
	b := ChunkSource("wiki/Home.md", 4)
	assert.Equal(t, a, b)
}

// TestChunk_Size tests character counting
func TestChunk_Size(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with spaces", "a b c", 5},
		{"multibyte runes count once", "héllo wörld", 11},
		{"cjk", "日本語", 3},
		{"emoji", "go 🚀", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chunk{Content: tt.content}
			assert.Equal(t, tt.want, c.Size())
		})
	}
}

// TestChunk_WordCount tests whitespace-delimited word counting
func TestChunk_WordCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"blank", "   \n\t  ", 0},
		{"single", "word", 1},
		{"sentence", "the quick brown fox", 4},
		{"newlines and tabs", "one\ttwo\nthree", 3},
		{"repeated spaces", "a    b", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chunk{Content: tt.content}
			assert.Equal(t, tt.want, c.WordCount())
		})
	}
}

// TestChunk_ValueSemantics tests that chunks copy as values
func TestChunk_ValueSemantics(t *testing.T) {
	orig := Chunk{
		ID:      "id-1",
		Content: "original",
		Source:  "file.md#chunk-0",
	}

	copied := orig
	copied.Content = "changed"

	assert.Equal(t, "original", orig.Content)
	assert.Equal(t, "changed", copied.Content)
}
