package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikivec-cli/internal/connectors/github"
	"github.com/custodia-labs/wikivec-cli/internal/connectors/localfs"
	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/core/services"
)

// maxErrorLines caps how many failure descriptions the run summary
// prints before collapsing the rest into a count.
const maxErrorLines = 10

var (
	crawlPath     string
	crawlBranch   string
	crawlMaxFiles int
	crawlWatch    bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [repo-url]",
	Short: "Crawl a wiki and index its files",
	Long: `Crawls a GitHub wiki repository (or a local directory with --path),
chunks and embeds every supported file, and writes the vectors to the
configured backend.

Chunk keys are derived from file path and chunk position, so crawling
the same source again overwrites in place.

Examples:
  # Crawl the configured repository
  wikivec crawl

  # Crawl an explicit repository on a branch
  wikivec crawl https://github.com/acme/wiki --branch docs

  # Index a local checkout and keep re-indexing as files change
  wikivec crawl --path ./wiki --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringVar(&crawlPath, "path", "", "crawl a local directory instead of a repository")
	crawlCmd.Flags().StringVar(&crawlBranch, "branch", "", "branch to crawl (defaults to the configured branch)")
	crawlCmd.Flags().IntVar(&crawlMaxFiles, "max-files", 0, "cap on files processed (defaults to the configured limit)")
	crawlCmd.Flags().BoolVar(&crawlWatch, "watch", false, "with --path, keep watching for changes and re-index them")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repoURL := cfg.RepoURL
	if len(args) == 1 {
		repoURL = args[0]
	}
	if crawlPath == "" && repoURL == "" {
		return errors.New("a repository URL or --path is required")
	}
	if crawlWatch && crawlPath == "" {
		return errors.New("--watch requires --path")
	}

	embedder, index, cleanup, err := buildValidatedBackends(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fetcher, err := newFetcher(ctx, repoURL)
	if err != nil {
		return err
	}

	maxFiles := cfg.MaxFiles
	if cmd.Flags().Changed("max-files") {
		maxFiles = crawlMaxFiles
	}

	gateway := services.NewEmbeddingGateway(embedder, index, cfg.EmbedWorkers, appLog)
	orchestrator := services.NewCrawlOrchestrator(fetcher, buildRegistry(gateway), cfg.SkipPatterns, maxFiles, appLog)
	attachProgressBar(cmd.OutOrStdout(), orchestrator)

	stats, err := orchestrator.Crawl(ctx)
	if err != nil {
		if hint := crawlHint(err); hint != "" {
			cmd.PrintErrln(hint)
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	printCrawlStats(cmd, stats)
	if stats.SuccessfulEmbeddings == 0 {
		return errors.New("no files were successfully processed")
	}
	cmd.Println()
	cmd.Println("Crawling completed successfully!")

	if crawlWatch {
		return watchAndReindex(ctx, cmd, orchestrator)
	}
	return nil
}

// newFetcher builds the file source: a local tree when --path is
// set, the GitHub contents API otherwise. Unless a branch was asked
// for beyond the stock default, the repository's own default branch
// wins.
func newFetcher(ctx context.Context, repoURL string) (driven.SourceFetcher, error) {
	if crawlPath != "" {
		return localfs.New(crawlPath, nil, appLog)
	}

	owner, repo, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClient(cfg.GitHubToken, github.DefaultRetryPolicy())
	if err != nil {
		return nil, err
	}

	branch := cfg.Branch
	if crawlBranch != "" {
		branch = crawlBranch
	}
	fetcher := github.NewFetcher(client, owner, repo, branch, appLog)

	if crawlBranch == "" && branch == github.DefaultBranch {
		if err := fetcher.ResolveDefaultBranch(ctx); err != nil {
			appLog.Warn("could not resolve default branch",
				"repo", fetcher.Source(),
				"assuming", branch,
				"error", err)
		}
	}
	return fetcher, nil
}

// crawlHint maps well-known GitHub failures to actionable advice.
// It returns "" for anything it does not recognise.
func crawlHint(err error) string {
	var rateErr *github.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		return fmt.Sprintf("GitHub API rate limit exceeded, quota resets at %s.",
			rateErr.ResetAt.Local().Format(time.Kitchen))
	case github.IsUnauthorized(err):
		return "GitHub rejected the token. Check github_token (wikivec config set github_token <token>)."
	case github.IsNotFound(err):
		return "Repository or branch not found. Private repositories need a token with repo scope."
	}
	return ""
}

// attachProgressBar renders crawl progress on w. The bar is created
// on the first callback, once the run total is known.
func attachProgressBar(w io.Writer, orchestrator *services.CrawlOrchestrator) {
	var bar *progressbar.ProgressBar
	orchestrator.OnProgress(func(processed, total int, _ string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Crawling wiki files...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}
		_ = bar.Set(processed)
	})
}

// printCrawlStats renders the run summary banner.
func printCrawlStats(cmd *cobra.Command, stats *domain.CrawlStats) {
	cmd.Println()
	cmd.Println(strings.Repeat("=", 60))
	cmd.Println("CRAWLING COMPLETED!")
	cmd.Println(strings.Repeat("=", 60))
	cmd.Printf("Total files processed: %d\n", stats.TotalFiles)
	cmd.Printf("Successfully embedded: %d\n", stats.SuccessfulEmbeddings)
	cmd.Printf("Failed embeddings: %d\n", stats.FailedEmbeddings)
	cmd.Printf("Skipped files: %d\n", stats.SkippedFiles)

	if len(stats.Errors) > 0 {
		total := len(stats.Errors) + stats.ErrorsDropped
		cmd.Printf("\nEncountered %d errors:\n", total)
		for i, msg := range stats.Errors {
			if i == maxErrorLines {
				cmd.Printf("  ... and %d more errors\n", total-maxErrorLines)
				break
			}
			cmd.Printf("  %d. %s\n", i+1, msg)
		}
	}

	cmd.Printf("Success rate: %.1f%%\n", stats.SuccessRate()*100)
}

// watchAndReindex re-processes files as they change under the crawl
// path. Removed files are logged; their chunks stay behind until the
// next full crawl.
func watchAndReindex(ctx context.Context, cmd *cobra.Command, orchestrator *services.CrawlOrchestrator) error {
	watcher, err := localfs.NewWatcher(crawlPath, appLog)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	events, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	for ev := range events {
		if ev.Removed {
			appLog.Info("file removed, chunks retained until next crawl", "file", ev.Path)
			continue
		}
		orchestrator.ProcessFile(ctx, domain.FileInfo{Path: ev.Path})
	}
	return nil
}
