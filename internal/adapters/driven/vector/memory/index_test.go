package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

func record(key string, embedding []float32) driven.VectorRecord {
	return driven.VectorRecord{
		Key:       key,
		Embedding: embedding,
		Metadata:  map[string]any{"source": key},
	}
}

func TestPutAndGet(t *testing.T) {
	ix := NewIndex()
	ctx := context.Background()

	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("a.md#chunk-0", []float32{1, 0}),
	}))

	got, err := ix.GetVector(ctx, "a.md#chunk-0")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got.Embedding)
	assert.Equal(t, "a.md#chunk-0", got.Metadata["source"])
}

func TestPutVectors_OverwritesExistingKey(t *testing.T) {
	ix := NewIndex()
	ctx := context.Background()

	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{record("k", []float32{1, 0})}))
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{record("k", []float32{0, 1})}))

	got, err := ix.GetVector(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, got.Embedding)
	assert.Equal(t, 1, ix.Len())
}

func TestPutVectors_RejectsEmptyKey(t *testing.T) {
	ix := NewIndex()

	err := ix.PutVectors(context.Background(), []driven.VectorRecord{record("", []float32{1})})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetVector_NotFound(t *testing.T) {
	ix := NewIndex()

	_, err := ix.GetVector(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_RanksNearestFirst(t *testing.T) {
	ix := NewIndex()
	ctx := context.Background()
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("exact", []float32{1, 0}),
		record("close", []float32{0.9, 0.1}),
		record("far", []float32{0, 1}),
	}))

	hits, err := ix.Query(ctx, []float32{1, 0}, 3)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "exact", hits[0].Key)
	assert.Equal(t, "close", hits[1].Key)
	assert.Equal(t, "far", hits[2].Key)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.InDelta(t, 1, hits[2].Distance, 1e-6, "orthogonal vectors have cosine distance 1")
}

func TestQuery_TopKLimits(t *testing.T) {
	ix := NewIndex()
	ctx := context.Background()
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("a", []float32{1, 0}),
		record("b", []float32{0.5, 0.5}),
		record("c", []float32{0, 1}),
	}))

	hits, err := ix.Query(ctx, []float32{1, 0}, 2)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestQuery_EmptyIndex(t *testing.T) {
	hits, err := NewIndex().Query(context.Background(), []float32{1}, 5)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQuery_ZeroTopK(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.PutVectors(context.Background(), []driven.VectorRecord{record("a", []float32{1})}))

	hits, err := ix.Query(context.Background(), []float32{1}, 0)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestPing(t *testing.T) {
	assert.NoError(t, NewIndex().Ping(context.Background()))
}
