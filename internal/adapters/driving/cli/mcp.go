package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/wikivec-cli/internal/connectors/github"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/core/services"
)

var (
	mcpPort    int
	mcpRecrawl string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing wiki search.

By default the server communicates over stdio using JSON-RPC and can
be used with Claude Desktop and other MCP-compatible AI assistants.
Both backends are pinged before the server starts.

Use --port to serve streamable HTTP instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --recrawl to re-run the wiki crawl on a cron schedule while the
server is up. Chunk keys are deterministic, so every pass overwrites
in place.

Examples:
  # Stdio mode (default, for Claude Desktop)
  wikivec mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  wikivec mcp serve --port 8080

  # Re-crawl the configured wiki every night at 03:00
  wikivec mcp serve --recrawl "0 3 * * *"

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "wikivec": {
        "command": "/path/to/wikivec",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpRecrawl, "recrawl", "", "cron schedule for re-crawling the configured wiki")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc := searchService
	if svc == nil {
		embedder, index, cleanup, err := buildValidatedBackends(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		svc = services.NewSearchService(embedder, index, appLog)

		if mcpRecrawl != "" {
			stop, err := scheduleRecrawl(ctx, embedder, index)
			if err != nil {
				return err
			}
			defer stop()
		}
	} else if mcpRecrawl != "" {
		return errors.New("--recrawl requires configured backends")
	}

	server, err := mcp.NewServer(&mcp.Ports{Search: svc}, appLog)
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// scheduleRecrawl re-runs the configured wiki crawl on a cron
// schedule, reusing the server's backends.
func scheduleRecrawl(ctx context.Context, embedder driven.EmbeddingService, index driven.VectorIndex) (func(), error) {
	if cfg.RepoURL == "" {
		return nil, errors.New("--recrawl requires repo_url to be configured")
	}

	gateway := services.NewEmbeddingGateway(embedder, index, cfg.EmbedWorkers, appLog)
	registry := buildRegistry(gateway)

	c := cron.New()
	_, err := c.AddFunc(mcpRecrawl, func() {
		fetcher, err := newFetcher(ctx, cfg.RepoURL)
		if err != nil {
			appLog.Error("recrawl skipped", "error", err)
			return
		}
		orchestrator := services.NewCrawlOrchestrator(fetcher, registry, cfg.SkipPatterns, cfg.MaxFiles, appLog)
		stats, err := orchestrator.Crawl(ctx)
		if err != nil {
			if github.IsRateLimited(err) {
				appLog.Warn("recrawl rate limited, deferring to the next tick", "error", err)
				return
			}
			appLog.Error("recrawl failed", "error", err)
			return
		}
		appLog.Info("recrawl completed",
			"total", stats.TotalFiles,
			"successful", stats.SuccessfulEmbeddings,
			"failed", stats.FailedEmbeddings,
			"skipped", stats.SkippedFiles)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid --recrawl schedule: %w", err)
	}

	c.Start()
	return func() { c.Stop() }, nil
}
