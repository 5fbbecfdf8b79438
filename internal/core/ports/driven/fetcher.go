package driven

import (
	"context"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// SourceFetcher lists and retrieves files from a crawlable source,
// such as a GitHub repository or a local directory tree.
type SourceFetcher interface {
	// Source identifies the crawl root (repository URL or directory path).
	Source() string

	// ListFiles enumerates the files available for crawling.
	ListFiles(ctx context.Context) ([]domain.FileInfo, error)

	// FetchContent retrieves a file's text content. Bytes that do
	// not decode as UTF-8 are dropped rather than failing the fetch.
	FetchContent(ctx context.Context, file domain.FileInfo) (string, error)

	// FileMetadata describes a file for chunk provenance: file_path,
	// sha and a source-specific URL.
	FileMetadata(file domain.FileInfo) map[string]any
}
