// Package bedrock provides an embedding service adapter using Amazon
// Bedrock Titan text embedding models.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModelID    = "amazon.titan-embed-text-v2:0"
	DefaultDimensions = 1024
)

// Config holds configuration for the Bedrock embedding service.
type Config struct {
	// ModelID is the Bedrock model identifier (default: Titan embed v2).
	ModelID string

	// Region is the AWS region. Empty defers to the SDK's default chain.
	Region string

	// Dimensions is the embedding vector size the model returns.
	Dimensions int
}

// invoker is the slice of the Bedrock runtime API the service uses.
type invoker interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput,
		opts ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// EmbeddingService generates embeddings by invoking a Titan model.
type EmbeddingService struct {
	client     invoker
	modelID    string
	dimensions int
}

// titanRequest is the Titan embedding model request body.
type titanRequest struct {
	InputText string `json:"inputText"`
}

// titanResponse is the Titan embedding model response body.
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// NewEmbeddingService creates a Bedrock embedding service using the
// SDK's default credential chain.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newService(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newService(client invoker, cfg Config) *EmbeddingService {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		client:     client,
		modelID:    cfg.ModelID,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", s.modelID, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned from %s", s.modelID)
	}

	return resp.Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts. Titan has no
// batch invocation, so texts are embedded one at a time.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model identifier in use.
func (s *EmbeddingService) ModelName() string {
	return s.modelID
}

// Ping validates Bedrock access by embedding a short probe text.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.Embed(ctx, "test"); err != nil {
		return fmt.Errorf("bedrock: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
