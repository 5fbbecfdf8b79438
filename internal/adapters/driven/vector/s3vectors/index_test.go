package s3vectors

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

type mockAPI struct {
	putIn    *s3vectors.PutVectorsInput
	putErr   error
	queryIn  *s3vectors.QueryVectorsInput
	queryOut *s3vectors.QueryVectorsOutput
	queryErr error
	getIn    *s3vectors.GetVectorsInput
	getOut   *s3vectors.GetVectorsOutput
	getErr   error
}

func (m *mockAPI) PutVectors(_ context.Context, in *s3vectors.PutVectorsInput,
	_ ...func(*s3vectors.Options)) (*s3vectors.PutVectorsOutput, error) {
	m.putIn = in
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &s3vectors.PutVectorsOutput{}, nil
}

func (m *mockAPI) QueryVectors(_ context.Context, in *s3vectors.QueryVectorsInput,
	_ ...func(*s3vectors.Options)) (*s3vectors.QueryVectorsOutput, error) {
	m.queryIn = in
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryOut != nil {
		return m.queryOut, nil
	}
	return &s3vectors.QueryVectorsOutput{}, nil
}

func (m *mockAPI) GetVectors(_ context.Context, in *s3vectors.GetVectorsInput,
	_ ...func(*s3vectors.Options)) (*s3vectors.GetVectorsOutput, error) {
	m.getIn = in
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOut != nil {
		return m.getOut, nil
	}
	return &s3vectors.GetVectorsOutput{}, nil
}

func testConfig() Config {
	return Config{Bucket: "wiki", Index: "chunks"}
}

func TestPutVectors_MapsRecords(t *testing.T) {
	mock := &mockAPI{}
	ix := newIndex(mock, testConfig())

	err := ix.PutVectors(context.Background(), []driven.VectorRecord{
		{
			Key:       "docs/a.md#chunk-0",
			Embedding: []float32{0.1, 0.2},
			Metadata:  map[string]any{"content": "hello"},
		},
		{
			Key:       "docs/a.md#chunk-1",
			Embedding: []float32{0.3, 0.4},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, mock.putIn)
	assert.Equal(t, "wiki", aws.ToString(mock.putIn.VectorBucketName))
	assert.Equal(t, "chunks", aws.ToString(mock.putIn.IndexName))
	require.Len(t, mock.putIn.Vectors, 2)

	first := mock.putIn.Vectors[0]
	assert.Equal(t, "docs/a.md#chunk-0", aws.ToString(first.Key))
	data, ok := first.Data.(*types.VectorDataMemberFloat32)
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, data.Value)
}

func TestPutVectors_Empty(t *testing.T) {
	mock := &mockAPI{}
	ix := newIndex(mock, testConfig())

	require.NoError(t, ix.PutVectors(context.Background(), nil))
	assert.Nil(t, mock.putIn, "no call should be made for an empty batch")
}

func TestPutVectors_RejectsEmptyKey(t *testing.T) {
	ix := newIndex(&mockAPI{}, testConfig())

	err := ix.PutVectors(context.Background(), []driven.VectorRecord{{Key: ""}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPutVectors_WrapsError(t *testing.T) {
	mock := &mockAPI{putErr: errors.New("access denied")}
	ix := newIndex(mock, testConfig())

	err := ix.PutVectors(context.Background(), []driven.VectorRecord{
		{Key: "k", Embedding: []float32{1}},
	})

	assert.ErrorContains(t, err, "put 1 vectors")
}

func TestQuery_MapsHits(t *testing.T) {
	mock := &mockAPI{
		queryOut: &s3vectors.QueryVectorsOutput{
			Vectors: []types.QueryOutputVector{
				{
					Key:      aws.String("docs/a.md#chunk-0"),
					Distance: aws.Float32(0.25),
					Metadata: document.NewLazyDocument(map[string]any{"content": "hello"}),
				},
				{
					Key:      aws.String("docs/b.md#chunk-2"),
					Distance: aws.Float32(0.5),
				},
			},
		},
	}
	ix := newIndex(mock, testConfig())

	hits, err := ix.Query(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "docs/a.md#chunk-0", hits[0].Key)
	assert.InDelta(t, 0.25, hits[0].Distance, 1e-6)
	assert.Equal(t, "hello", hits[0].Metadata["content"])
	assert.Nil(t, hits[1].Metadata)

	require.NotNil(t, mock.queryIn)
	assert.Equal(t, int32(5), aws.ToInt32(mock.queryIn.TopK))
	assert.True(t, mock.queryIn.ReturnMetadata)
	assert.True(t, mock.queryIn.ReturnDistance)
}

func TestQuery_MissingDistanceDefaultsToOne(t *testing.T) {
	mock := &mockAPI{
		queryOut: &s3vectors.QueryVectorsOutput{
			Vectors: []types.QueryOutputVector{{Key: aws.String("k")}},
		},
	}
	ix := newIndex(mock, testConfig())

	hits, err := ix.Query(context.Background(), []float32{1}, 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-9)
}

func TestQuery_WrapsError(t *testing.T) {
	mock := &mockAPI{queryErr: errors.New("index missing")}
	ix := newIndex(mock, testConfig())

	_, err := ix.Query(context.Background(), []float32{1}, 3)

	assert.ErrorContains(t, err, "query vectors")
}

func TestQuery_ZeroTopK(t *testing.T) {
	mock := &mockAPI{}
	ix := newIndex(mock, testConfig())

	hits, err := ix.Query(context.Background(), []float32{1}, 0)

	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Nil(t, mock.queryIn)
}

func TestGetVector_Found(t *testing.T) {
	mock := &mockAPI{
		getOut: &s3vectors.GetVectorsOutput{
			Vectors: []types.GetOutputVector{
				{
					Key:      aws.String("docs/a.md#chunk-0"),
					Data:     &types.VectorDataMemberFloat32{Value: []float32{0.1, 0.2}},
					Metadata: document.NewLazyDocument(map[string]any{"content": "hello"}),
				},
			},
		},
	}
	ix := newIndex(mock, testConfig())

	got, err := ix.GetVector(context.Background(), "docs/a.md#chunk-0")

	require.NoError(t, err)
	assert.Equal(t, "docs/a.md#chunk-0", got.Key)
	assert.Equal(t, []float32{0.1, 0.2}, got.Embedding)
	assert.Equal(t, "hello", got.Metadata["content"])
	assert.Equal(t, []string{"docs/a.md#chunk-0"}, mock.getIn.Keys)
}

func TestGetVector_NotFound(t *testing.T) {
	ix := newIndex(&mockAPI{}, testConfig())

	_, err := ix.GetVector(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPing(t *testing.T) {
	mock := &mockAPI{}
	ix := newIndex(mock, testConfig())

	require.NoError(t, ix.Ping(context.Background()))
	assert.Equal(t, []string{pingKey}, mock.getIn.Keys)
}

func TestPing_Failure(t *testing.T) {
	mock := &mockAPI{getErr: errors.New("no such bucket")}
	ix := newIndex(mock, testConfig())

	assert.ErrorContains(t, ix.Ping(context.Background()), "ping failed")
}
