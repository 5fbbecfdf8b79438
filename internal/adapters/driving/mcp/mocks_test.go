package mcp

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	chunk    *domain.SearchResult
	err      error
	gotQuery string
	gotLimit int
	gotKey   string
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	limit int,
) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) Lookup(
	_ context.Context,
	key string,
) (*domain.SearchResult, error) {
	m.gotKey = key
	if m.err != nil {
		return nil, m.err
	}
	return m.chunk, nil
}
