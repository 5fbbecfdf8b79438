package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SearchResult represents a single similarity hit.
type SearchResult struct {
	// ID is the storage key of the matched vector (the chunk source).
	ID string

	// Content is the stored chunk text.
	Content string

	// Source is the chunk address, "{file_path}#chunk-{index}".
	Source string

	// Score is the similarity score, computed as 1 - distance.
	// Backends reporting cosine distance yield scores in [0, 1];
	// a distance above 1 produces a negative score, which is
	// passed through unclamped.
	Score float64

	// Metadata is the stored metadata map for the chunk.
	Metadata map[string]any
}

// ToMarkdown renders the result as a markdown block for agent and
// human consumption:
//
//	### {source}
//
//	**Score:** {score}
//
//	**Metadata:** {json, indent 2}
//
//	**Content:**
//	{content}
func (r SearchResult) ToMarkdown() string {
	meta := []byte("{}")
	if len(r.Metadata) > 0 {
		if m, err := json.MarshalIndent(r.Metadata, "", "  "); err == nil {
			meta = m
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", r.Source)
	fmt.Fprintf(&b, "**Score:** %s\n\n", strconv.FormatFloat(r.Score, 'g', -1, 64))
	fmt.Fprintf(&b, "**Metadata:** %s\n\n", meta)
	fmt.Fprintf(&b, "**Content:**\n%s\n", r.Content)
	return b.String()
}
