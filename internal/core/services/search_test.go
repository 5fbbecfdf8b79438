package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu       sync.Mutex
	calls    int
	vector   []float32
	embedErr error
	perText  map[string]error
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err, ok := m.perText[text]; ok {
		return nil, err
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vector != nil {
		return m.vector, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	put      []driven.VectorRecord
	putErr   error
	hits     []driven.VectorHit
	queryErr error
	gotTopK  int
	records  map[string]*driven.VectorRecord
	getErr   error
}

func (m *mockVectorIndex) PutVectors(_ context.Context, records []driven.VectorRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.put = append(m.put, records...)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, topK int) ([]driven.VectorHit, error) {
	m.gotTopK = topK
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockVectorIndex) GetVector(_ context.Context, key string) (*driven.VectorRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (m *mockVectorIndex) Ping(context.Context) error { return nil }

func (m *mockVectorIndex) Close() error { return nil }

// --- Tests ---

func TestSearch_Success(t *testing.T) {
	index := &mockVectorIndex{
		hits: []driven.VectorHit{
			{
				Key:      "docs/a.md#chunk-0",
				Distance: 0.3,
				Metadata: map[string]any{
					"content":   "chunk text",
					"source":    "docs/a.md#chunk-0",
					"file_path": "docs/a.md",
				},
			},
			{
				Key:      "docs/b.md#chunk-2",
				Distance: 0.5,
				Metadata: map[string]any{
					"content": "other text",
					"source":  "docs/b.md#chunk-2",
				},
			},
		},
	}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	results, err := svc.Search(context.Background(), "how to install", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "docs/a.md#chunk-0", results[0].ID)
	assert.Equal(t, "chunk text", results[0].Content)
	assert.Equal(t, "docs/a.md#chunk-0", results[0].Source)
	assert.InDelta(t, 0.7, results[0].Score, 1e-9)
	assert.Equal(t, "docs/a.md", results[0].Metadata["file_path"])

	assert.Equal(t, "docs/b.md#chunk-2", results[1].ID)
	assert.InDelta(t, 0.5, results[1].Score, 1e-9)
}

func TestSearch_EmptyQuery(t *testing.T) {
	embedder := &mockEmbeddingService{}
	svc := NewSearchService(embedder, &mockVectorIndex{}, nil)

	for _, query := range []string{"", "   ", "\n\t"} {
		results, err := svc.Search(context.Background(), query, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Zero(t, embedder.embedCalls())
}

func TestSearch_DefaultLimit(t *testing.T) {
	index := &mockVectorIndex{}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	_, err := svc.Search(context.Background(), "query", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchLimit, index.gotTopK)
}

func TestSearch_EmbedFailureDegrades(t *testing.T) {
	embedder := &mockEmbeddingService{embedErr: errors.New("throttled")}
	svc := NewSearchService(embedder, &mockVectorIndex{}, nil)

	results, err := svc.Search(context.Background(), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_QueryFailureDegrades(t *testing.T) {
	index := &mockVectorIndex{queryErr: errors.New("index unavailable")}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	results, err := svc.Search(context.Background(), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NegativeScorePassedThrough(t *testing.T) {
	index := &mockVectorIndex{
		hits: []driven.VectorHit{{Key: "k", Distance: 1.4, Metadata: map[string]any{}}},
	}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	results, err := svc.Search(context.Background(), "query", 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, -0.4, results[0].Score, 1e-9)
}

func TestSearch_LimitRespected(t *testing.T) {
	index := &mockVectorIndex{
		hits: []driven.VectorHit{
			{Key: "a", Distance: 0.1},
			{Key: "b", Distance: 0.2},
			{Key: "c", Distance: 0.3},
		},
	}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	results, err := svc.Search(context.Background(), "query", 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestLookup_Found(t *testing.T) {
	index := &mockVectorIndex{
		records: map[string]*driven.VectorRecord{
			"docs/a.md#chunk-1": {
				Key:       "docs/a.md#chunk-1",
				Embedding: []float32{0.1},
				Metadata: map[string]any{
					"content": "stored text",
					"source":  "docs/a.md#chunk-1",
				},
			},
		},
	}
	svc := NewSearchService(&mockEmbeddingService{}, index, nil)

	result, err := svc.Lookup(context.Background(), "docs/a.md#chunk-1")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "docs/a.md#chunk-1", result.ID)
	assert.Equal(t, "stored text", result.Content)
	assert.Equal(t, "docs/a.md#chunk-1", result.Source)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func TestLookup_NotFound(t *testing.T) {
	svc := NewSearchService(&mockEmbeddingService{}, &mockVectorIndex{}, nil)

	result, err := svc.Lookup(context.Background(), "missing#chunk-0")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, result)
}
