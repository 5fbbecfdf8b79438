// Command wikivec crawls a wiki into a vector index and serves
// similarity search over it via CLI, TUI and MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikivec-cli/internal/config"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "wikivec: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, os.Stderr)
	cli.Configure(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
