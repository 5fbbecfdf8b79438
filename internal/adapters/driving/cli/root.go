// Package cli implements the wikivec command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/vector"
	"github.com/custodia-labs/wikivec-cli/internal/config"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikivec-cli/internal/core/services"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
	"github.com/custodia-labs/wikivec-cli/internal/processors"
	"github.com/custodia-labs/wikivec-cli/internal/processors/html"
	"github.com/custodia-labs/wikivec-cli/internal/processors/markdown"
	"github.com/custodia-labs/wikivec-cli/internal/processors/stub"
	"github.com/custodia-labs/wikivec-cli/internal/splitter"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// cfg and appLog are injected by Configure before the command tree
// runs. The defaults keep unit tests self-contained.
var (
	cfg    = config.Default()
	appLog = logger.Discard()
)

// searchService, when non-nil, overrides the lazily built service.
// Tests inject mocks here; production code leaves it nil.
var searchService driving.SearchService

var rootCmd = &cobra.Command{
	Use:   "wikivec",
	Short: "Index a wiki into a vector store and search it",
	Long: `Wikivec crawls a wiki repository, chunks and embeds its files into a
vector index, and serves similarity search over the result via the
command line, an interactive TUI and an MCP server.`,
	SilenceUsage: true,
}

// Configure injects the loaded configuration and logger. Call once
// before Execute.
func Configure(c config.Config, log *slog.Logger) {
	cfg = c
	if log != nil {
		appLog = log
	}
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ensureSearchService returns the injected search service or builds
// one from the configuration. The returned cleanup closes whatever
// was built here.
func ensureSearchService(ctx context.Context) (driving.SearchService, func(), error) {
	if searchService != nil {
		return searchService, func() {}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	embedder, err := embedding.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building embedding provider: %w", err)
	}
	index, err := vector.New(ctx, cfg)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, fmt.Errorf("building vector index: %w", err)
	}

	cleanup := func() {
		_ = index.Close()
		_ = embedder.Close()
	}
	return services.NewSearchService(embedder, index, appLog), cleanup, nil
}

// buildValidatedBackends constructs the embedding provider and the
// vector index and pings both before returning them.
func buildValidatedBackends(ctx context.Context) (driven.EmbeddingService, driven.VectorIndex, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	embedder, err := embedding.NewValidated(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	index, err := vector.NewValidated(ctx, cfg)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = index.Close()
		_ = embedder.Close()
	}
	return embedder, index, cleanup, nil
}

// buildRegistry assembles the processor set over a chunk store. Stub
// processors acknowledge known source types without embedding them.
func buildRegistry(store driven.ChunkStore) *processors.Registry {
	pipe := processors.NewPipeline(store, appLog)
	split := splitter.New(
		splitter.WithMaxSize(cfg.ChunkSize),
		splitter.WithOverlap(cfg.ChunkOverlap),
	)
	procs := append([]driven.Processor{
		markdown.New(pipe, split),
		html.New(pipe, split),
	}, stub.All(appLog)...)
	return processors.NewRegistry(procs...)
}
