package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// DefaultMaxFiles caps how many files one crawl will process.
const DefaultMaxFiles = 100

// DefaultSkipPatterns filters out version control internals,
// dependency caches, lockfiles and OS artifacts. A pattern matches
// anywhere in the file path.
var DefaultSkipPatterns = []string{
	".git/",
	"node_modules/",
	"__pycache__/",
	".pytest_cache/",
	"venv/",
	"env/",
	".env",
	"package-lock.json",
	"yarn.lock",
	".DS_Store",
	"Thumbs.db",
}

// Ensure CrawlOrchestrator implements the interface.
var _ driving.Crawler = (*CrawlOrchestrator)(nil)

// CrawlOrchestrator walks a source's file list and routes every
// eligible file to the processor claiming its extension, keeping
// run-level counters as it goes.
type CrawlOrchestrator struct {
	fetcher  driven.SourceFetcher
	registry driven.ProcessorRegistry
	skip     []string
	maxFiles int
	log      *slog.Logger
	progress func(processed, total int, file string)
}

// NewCrawlOrchestrator creates a crawl orchestrator over the given
// fetcher and processor registry. maxFiles caps the crawl, zero
// means no cap and negative values fall back to the default; an
// empty skip list falls back to DefaultSkipPatterns.
func NewCrawlOrchestrator(
	fetcher driven.SourceFetcher,
	registry driven.ProcessorRegistry,
	skip []string,
	maxFiles int,
	log *slog.Logger,
) *CrawlOrchestrator {
	if len(skip) == 0 {
		skip = DefaultSkipPatterns
	}
	if maxFiles < 0 {
		maxFiles = DefaultMaxFiles
	}
	if log == nil {
		log = logger.Discard()
	}
	return &CrawlOrchestrator{
		fetcher:  fetcher,
		registry: registry,
		skip:     skip,
		maxFiles: maxFiles,
		log:      log,
	}
}

// OnProgress registers a callback invoked after each file with the
// number of files handled so far, the run total and the file's path.
// Must be set before Crawl.
func (o *CrawlOrchestrator) OnProgress(fn func(processed, total int, file string)) {
	o.progress = fn
}

// Crawl processes every eligible file from the source. Per-file
// failures are counted and recorded, never fatal; cancellation is
// honoured between files so no partially-written chunk state is
// left behind. The returned stats are valid even when an error is
// returned alongside them.
func (o *CrawlOrchestrator) Crawl(ctx context.Context) (*domain.CrawlStats, error) {
	stats := &domain.CrawlStats{}

	files, err := o.fetcher.ListFiles(ctx)
	if err != nil {
		stats.RecordError(fmt.Sprintf("list files: %v", err))
		return stats, fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		o.log.Warn("no files found", "source", o.fetcher.Source())
		return stats, nil
	}

	if o.maxFiles > 0 && len(files) > o.maxFiles {
		o.log.Info("crawl truncated", "limit", o.maxFiles, "listed", len(files))
		files = files[:o.maxFiles]
	}

	o.log.Info("crawl started", "source", o.fetcher.Source(), "files", len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			stats.RecordError(fmt.Sprintf("crawl aborted: %v", err))
			return stats, err
		}

		if i%10 == 0 {
			o.log.Info("crawl progress",
				"current", i+1, "total", len(files), "file", file.Path)
		}

		stats.TotalFiles++
		o.processFile(ctx, file, stats)

		if o.progress != nil {
			o.progress(i+1, len(files), file.Path)
		}
	}

	o.log.Info("crawl completed",
		"total", stats.TotalFiles,
		"successful", stats.SuccessfulEmbeddings,
		"failed", stats.FailedEmbeddings,
		"skipped", stats.SkippedFiles)
	return stats, nil
}

// ProcessFile runs the fetch-process pipeline for one file outside
// a crawl run.
func (o *CrawlOrchestrator) ProcessFile(ctx context.Context, file domain.FileInfo) bool {
	return o.processFile(ctx, file, &domain.CrawlStats{})
}

// processFile routes one file through skip filtering, processor
// lookup, fetch and processing. Skip matches, unclaimed extensions
// and empty files count as skipped and report success; only fetch
// errors and processor failures count as failures.
func (o *CrawlOrchestrator) processFile(ctx context.Context, file domain.FileInfo, stats *domain.CrawlStats) bool {
	path := file.Path

	if o.shouldSkip(path) {
		o.log.Debug("skip pattern matched", "file", path)
		stats.SkippedFiles++
		return true
	}

	proc, ok := o.registry.ForFile(path)
	if !ok {
		o.log.Debug("no processor for file", "file", path)
		stats.SkippedFiles++
		return true
	}

	content, err := o.fetcher.FetchContent(ctx, file)
	if err != nil {
		o.log.Error("fetch failed", "file", path, "error", err)
		stats.RecordError(fmt.Sprintf("fetch %s: %v", path, err))
		stats.FailedEmbeddings++
		return false
	}
	if content == "" {
		o.log.Warn("empty content", "file", path)
		stats.SkippedFiles++
		return true
	}

	if proc.Process(ctx, content, path, o.fetcher.FileMetadata(file)) {
		stats.SuccessfulEmbeddings++
		o.log.Info("processed", "file", path)
		return true
	}

	stats.FailedEmbeddings++
	o.log.Warn("processing failed", "file", path)
	return false
}

// shouldSkip reports whether any skip pattern occurs in the path.
func (o *CrawlOrchestrator) shouldSkip(path string) bool {
	for _, pattern := range o.skip {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}
