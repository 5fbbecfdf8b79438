// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceFetcher: Lists and retrieves files from a crawl source
//   - Processor: Turns one file into persisted chunks
//   - ChunkStore: Embeds and persists chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores vectors and answers similarity queries
//
// The fetch side degrades per file: a failed fetch or processor run is
// counted against the crawl, never fatal. The store side degrades per
// chunk on embedding failures and per batch on write failures.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or processor package
package driven
