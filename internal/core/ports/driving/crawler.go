package driving

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// Crawler ingests a source into the vector store.
type Crawler interface {
	// Crawl processes every eligible file from the source and
	// reports run statistics. Cancellation takes effect between
	// files; the file being processed is allowed to finish.
	Crawl(ctx context.Context) (*domain.CrawlStats, error)

	// ProcessFile runs the fetch-process pipeline for one file and
	// reports whether it succeeded.
	ProcessFile(ctx context.Context, file domain.FileInfo) bool
}
