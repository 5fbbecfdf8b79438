package domain

// FileInfo describes one file discovered by a source fetcher.
type FileInfo struct {
	// Path is the file path relative to the crawl root.
	Path string

	// SHA is the content hash reported by the source, when known.
	// GitHub reports git blob SHAs; local trees use SHA-256.
	SHA string

	// Size is the file size in bytes, when the source reports it.
	Size int64
}
