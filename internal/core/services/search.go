package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// DefaultSearchLimit bounds a query when the caller does not.
const DefaultSearchLimit = 5

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService turns queries into ranked results. The query is
// embedded with the same model used at write time; the backend owns
// the ranking order and results are not re-sorted here.
type SearchService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	log      *slog.Logger
}

// NewSearchService creates a search service over the given embedding
// service and vector index.
func NewSearchService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	log *slog.Logger,
) *SearchService {
	if log == nil {
		log = logger.Discard()
	}
	return &SearchService{embedder: embedder, index: index, log: log}
}

// Search embeds the query and maps the nearest stored chunks to
// results scored as 1 - distance, without clamping. Backend
// failures degrade to an empty result set rather than an error.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		s.log.Debug("empty query, returning no results")
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn("query embedding failed", "error", err)
		return nil, nil
	}

	hits, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		s.log.Warn("vector query failed", "error", err)
		return nil, nil
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hitToResult(hit))
	}

	s.log.Info("search completed", "results", len(results))
	return results, nil
}

// Lookup fetches one stored chunk by its storage key. A direct hit
// scores 1, the score of a zero-distance match.
func (s *SearchService) Lookup(ctx context.Context, key string) (*domain.SearchResult, error) {
	record, err := s.index.GetVector(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get vector %q: %w", key, err)
	}

	result := domain.SearchResult{
		ID:       record.Key,
		Score:    1,
		Metadata: record.Metadata,
	}
	fillFromMetadata(&result)
	return &result, nil
}

// hitToResult maps one backend hit to a scored result. Content and
// source are lifted out of the stored metadata, which is kept whole.
func hitToResult(hit driven.VectorHit) domain.SearchResult {
	result := domain.SearchResult{
		ID:       hit.Key,
		Score:    1 - hit.Distance,
		Metadata: hit.Metadata,
	}
	fillFromMetadata(&result)
	return result
}

func fillFromMetadata(result *domain.SearchResult) {
	if result.Metadata == nil {
		return
	}
	if content, ok := result.Metadata["content"].(string); ok {
		result.Content = content
	}
	if source, ok := result.Metadata["source"].(string); ok {
		result.Source = source
	}
}
