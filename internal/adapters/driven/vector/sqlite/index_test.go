package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func record(key string, embedding []float32, metadata map[string]any) driven.VectorRecord {
	return driven.VectorRecord{Key: key, Embedding: embedding, Metadata: metadata}
}

func TestNewIndex_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "vectors.db")

	ix, err := NewIndex(path)

	require.NoError(t, err)
	defer ix.Close()
	assert.Equal(t, path, ix.Path())
}

func TestNewIndex_EmptyPath(t *testing.T) {
	_, err := NewIndex("")

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestPutAndGet(t *testing.T) {
	ix := testIndex(t)
	ctx := context.Background()

	err := ix.PutVectors(ctx, []driven.VectorRecord{
		record("docs/a.md#chunk-0", []float32{0.1, 0.2, 0.3}, map[string]any{
			"file_path": "docs/a.md",
			"content":   "hello",
		}),
	})
	require.NoError(t, err)

	got, err := ix.GetVector(ctx, "docs/a.md#chunk-0")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Embedding)
	assert.Equal(t, "docs/a.md", got.Metadata["file_path"])
	assert.Equal(t, "hello", got.Metadata["content"])
}

func TestPutVectors_OverwritesExistingKey(t *testing.T) {
	ix := testIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("k", []float32{1, 0}, map[string]any{"content": "old"}),
	}))
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("k", []float32{0, 1}, map[string]any{"content": "new"}),
	}))

	got, err := ix.GetVector(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, got.Embedding)
	assert.Equal(t, "new", got.Metadata["content"])

	count, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPutVectors_Empty(t *testing.T) {
	ix := testIndex(t)

	assert.NoError(t, ix.PutVectors(context.Background(), nil))
}

func TestPutVectors_RejectsEmptyKey(t *testing.T) {
	ix := testIndex(t)

	err := ix.PutVectors(context.Background(), []driven.VectorRecord{
		record("", []float32{1}, nil),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetVector_NotFound(t *testing.T) {
	ix := testIndex(t)

	_, err := ix.GetVector(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_RanksNearestFirst(t *testing.T) {
	ix := testIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("exact", []float32{1, 0}, map[string]any{"content": "exact"}),
		record("close", []float32{0.9, 0.1}, nil),
		record("far", []float32{0, 1}, nil),
	}))

	hits, err := ix.Query(ctx, []float32{1, 0}, 3)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "exact", hits[0].Key)
	assert.Equal(t, "close", hits[1].Key)
	assert.Equal(t, "far", hits[2].Key)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.Equal(t, "exact", hits[0].Metadata["content"])
}

func TestQuery_TopKLimits(t *testing.T) {
	ix := testIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("a", []float32{1, 0}, nil),
		record("b", []float32{0.5, 0.5}, nil),
		record("c", []float32{0, 1}, nil),
	}))

	hits, err := ix.Query(ctx, []float32{1, 0}, 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Key)
}

func TestQuery_EmptyIndex(t *testing.T) {
	hits, err := testIndex(t).Query(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")
	ctx := context.Background()

	ix, err := NewIndex(path)
	require.NoError(t, err)
	require.NoError(t, ix.PutVectors(ctx, []driven.VectorRecord{
		record("persist", []float32{0.5, 0.5}, map[string]any{"content": "kept"}),
	}))
	require.NoError(t, ix.Close())

	reopened, err := NewIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetVector(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Metadata["content"])
}

func TestVectorRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.25, 0}

	assert.Equal(t, original, bytesToFloat32Slice(float32SliceToBytes(original)))
}

func TestPing(t *testing.T) {
	assert.NoError(t, testIndex(t).Ping(context.Background()))
}
