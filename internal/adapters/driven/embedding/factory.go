// Package embedding assembles the configured embedding provider.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/embedding/bedrock"
	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/wikivec-cli/internal/config"
	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check in NewValidated.
const pingTimeout = 5 * time.Second

// New creates the embedding service named by cfg.EmbeddingProvider.
func New(ctx context.Context, cfg config.Config) (driven.EmbeddingService, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderBedrock:
		return bedrock.NewEmbeddingService(ctx, bedrock.Config{
			ModelID:    cfg.EmbeddingModelID,
			Region:     cfg.AWSRegion,
			Dimensions: cfg.EmbeddingDimensions,
		})

	case config.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.OllamaURL,
			Model:      modelFor(cfg),
			Dimensions: dimensionsFor(cfg),
		}), nil

	case config.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      modelFor(cfg),
			Dimensions: dimensionsFor(cfg),
		})

	default:
		return nil, fmt.Errorf("%w: embedding provider %q",
			domain.ErrUnsupportedType, cfg.EmbeddingProvider)
	}
}

// NewValidated creates the embedding service and verifies it is
// reachable before anything depends on it.
func NewValidated(ctx context.Context, cfg config.Config) (driven.EmbeddingService, error) {
	svc, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// modelFor treats a still-default Bedrock model ID as unset when
// another provider is selected, so that provider's own default
// applies instead.
func modelFor(cfg config.Config) string {
	if cfg.EmbeddingProvider != config.ProviderBedrock &&
		cfg.EmbeddingModelID == bedrock.DefaultModelID {
		return ""
	}
	return cfg.EmbeddingModelID
}

// dimensionsFor does the same for the dimension count.
func dimensionsFor(cfg config.Config) int {
	if cfg.EmbeddingProvider != config.ProviderBedrock &&
		cfg.EmbeddingDimensions == bedrock.DefaultDimensions {
		return 0
	}
	return cfg.EmbeddingDimensions
}
