// Package s3vectors provides a vector index backed by Amazon S3
// Vectors. The service owns nearest-neighbour ranking; this adapter
// only maps records and hits across the wire.
package s3vectors

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// pingKey is a key that never exists; fetching it proves the bucket
// and index are reachable without touching real data.
const pingKey = "__wikivec-ping__"

// api is the slice of the S3 Vectors API the index uses.
type api interface {
	PutVectors(ctx context.Context, in *s3vectors.PutVectorsInput,
		opts ...func(*s3vectors.Options)) (*s3vectors.PutVectorsOutput, error)
	QueryVectors(ctx context.Context, in *s3vectors.QueryVectorsInput,
		opts ...func(*s3vectors.Options)) (*s3vectors.QueryVectorsOutput, error)
	GetVectors(ctx context.Context, in *s3vectors.GetVectorsInput,
		opts ...func(*s3vectors.Options)) (*s3vectors.GetVectorsOutput, error)
}

// Config holds configuration for the S3 Vectors index.
type Config struct {
	// Bucket is the vector bucket name (required).
	Bucket string

	// Index is the vector index name (required).
	Index string

	// Region is the AWS region. Empty defers to the SDK's default chain.
	Region string
}

// Index stores vectors in an S3 Vectors bucket index.
type Index struct {
	client api
	bucket string
	index  string
}

// NewIndex creates an S3 Vectors index using the SDK's default
// credential chain.
func NewIndex(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Bucket == "" || cfg.Index == "" {
		return nil, fmt.Errorf("%w: s3vectors bucket and index are required", domain.ErrInvalidConfig)
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newIndex(s3vectors.NewFromConfig(awsCfg), cfg), nil
}

func newIndex(client api, cfg Config) *Index {
	return &Index{
		client: client,
		bucket: cfg.Bucket,
		index:  cfg.Index,
	}
}

// PutVectors upserts records in one batch call. S3 Vectors overwrites
// on duplicate keys, which gives re-crawls their idempotency.
func (ix *Index) PutVectors(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]types.PutInputVector, 0, len(records))
	for _, record := range records {
		if record.Key == "" {
			return fmt.Errorf("%w: record key must not be empty", domain.ErrInvalidInput)
		}
		vectors = append(vectors, types.PutInputVector{
			Key:      aws.String(record.Key),
			Data:     &types.VectorDataMemberFloat32{Value: record.Embedding},
			Metadata: document.NewLazyDocument(record.Metadata),
		})
	}

	_, err := ix.client.PutVectors(ctx, &s3vectors.PutVectorsInput{
		VectorBucketName: aws.String(ix.bucket),
		IndexName:        aws.String(ix.index),
		Vectors:          vectors,
	})
	if err != nil {
		return fmt.Errorf("put %d vectors: %w", len(vectors), err)
	}
	return nil
}

// Query asks the service for the topK nearest vectors. The service
// returns them nearest first with distances and metadata.
func (ix *Index) Query(ctx context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	out, err := ix.client.QueryVectors(ctx, &s3vectors.QueryVectorsInput{
		VectorBucketName: aws.String(ix.bucket),
		IndexName:        aws.String(ix.index),
		QueryVector:      &types.VectorDataMemberFloat32{Value: vector},
		TopK:             aws.Int32(int32(topK)),
		ReturnMetadata:   true,
		ReturnDistance:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(out.Vectors))
	for _, v := range out.Vectors {
		metadata, err := decodeMetadata(v.Metadata)
		if err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", aws.ToString(v.Key), err)
		}

		// Distance defaults to 1.0 when the service omits it, the
		// neutral value for cosine distance.
		distance := 1.0
		if v.Distance != nil {
			distance = float64(*v.Distance)
		}

		hits = append(hits, driven.VectorHit{
			Key:      aws.ToString(v.Key),
			Distance: distance,
			Metadata: metadata,
		})
	}
	return hits, nil
}

// GetVector fetches a single record by key.
func (ix *Index) GetVector(ctx context.Context, key string) (*driven.VectorRecord, error) {
	out, err := ix.client.GetVectors(ctx, &s3vectors.GetVectorsInput{
		VectorBucketName: aws.String(ix.bucket),
		IndexName:        aws.String(ix.index),
		Keys:             []string{key},
		ReturnData:       true,
		ReturnMetadata:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("get vector %s: %w", key, err)
	}
	if len(out.Vectors) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}

	v := out.Vectors[0]
	metadata, err := decodeMetadata(v.Metadata)
	if err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", key, err)
	}

	var embedding []float32
	if data, ok := v.Data.(*types.VectorDataMemberFloat32); ok {
		embedding = data.Value
	}

	return &driven.VectorRecord{
		Key:       aws.ToString(v.Key),
		Embedding: embedding,
		Metadata:  metadata,
	}, nil
}

// Ping validates the bucket and index are reachable.
func (ix *Index) Ping(ctx context.Context) error {
	_, err := ix.client.GetVectors(ctx, &s3vectors.GetVectorsInput{
		VectorBucketName: aws.String(ix.bucket),
		IndexName:        aws.String(ix.index),
		Keys:             []string{pingKey},
	})
	if err != nil {
		return fmt.Errorf("s3vectors: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}

func decodeMetadata(doc document.Interface) (map[string]any, error) {
	if doc == nil {
		return nil, nil
	}
	var metadata map[string]any
	if err := doc.UnmarshalSmithyDocument(&metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
