// Package localfs implements a source fetcher over a local directory
// tree, for crawling checkouts without going through the GitHub API.
//
// Files are listed with doublestar include globs, hidden files and
// directories are skipped, and each file's SHA-256 content hash
// stands in for the git blob SHA in chunk provenance. Provenance
// URLs use the file:// scheme.
//
// The package also provides a Watcher built on fsnotify so changed
// files can be re-processed while a crawl session stays open.
// Deterministic chunk keys make that re-processing an idempotent
// overwrite.
package localfs
