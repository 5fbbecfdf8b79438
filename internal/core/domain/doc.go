// Package domain defines the core business entities for wikivec.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retrievable unit of a source file
//   - Document: An ordered aggregate of chunks from one file
//   - SearchResult: A single similarity hit
//   - FileInfo: A file discovered by a source fetcher
//   - CrawlStats: Counters accumulated over one crawl run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
