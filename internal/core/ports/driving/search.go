package driving

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// SearchService answers similarity queries over the indexed chunks.
type SearchService interface {
	// Search embeds the query and returns up to limit results,
	// nearest first. Backend failures degrade to empty results.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// Lookup fetches one stored chunk by its source key.
	// Returns domain.ErrNotFound when the key does not exist.
	Lookup(ctx context.Context, key string) (*domain.SearchResult, error)
}
