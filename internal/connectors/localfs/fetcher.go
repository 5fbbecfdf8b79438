package localfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// ErrNotADirectory indicates the crawl root is not a directory.
var ErrNotADirectory = errors.New("localfs: root is not a directory")

var _ driven.SourceFetcher = (*Fetcher)(nil)

// Fetcher lists and reads files under one directory tree.
type Fetcher struct {
	root     string
	includes []string
	log      *slog.Logger
}

// New creates a fetcher rooted at dir. Include patterns use
// doublestar syntax against slash-separated relative paths; when none
// are given every file matches.
func New(dir string, includes []string, log *slog.Logger) (*Fetcher, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		root:     root,
		includes: includes,
		log:      log,
	}, nil
}

// Root returns the absolute crawl root.
func (f *Fetcher) Root() string {
	return f.root
}

// Source identifies the directory being crawled.
func (f *Fetcher) Source() string {
	return "file://" + f.root
}

// ListFiles walks the tree and returns every non-hidden file matching
// the include patterns. SHAs are SHA-256 hashes of the file content,
// so unchanged files keep stable provenance across crawls.
func (f *Fetcher) ListFiles(ctx context.Context) ([]domain.FileInfo, error) {
	var files []domain.FileInfo

	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != f.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if isHidden(rel) || !f.included(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		sum := sha256.Sum256(data)

		files = append(files, domain.FileInfo{
			Path: rel,
			SHA:  hex.EncodeToString(sum[:]),
			Size: int64(len(data)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", f.root, err)
	}

	f.log.Info("listed directory files", "root", f.root, "files", len(files))
	return files, nil
}

// FetchContent reads one file's text. Invalid UTF-8 sequences are
// dropped so downstream chunking always sees valid text.
func (f *Fetcher) FetchContent(_ context.Context, file domain.FileInfo) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(file.Path)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file.Path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// FileMetadata describes a file for chunk provenance.
func (f *Fetcher) FileMetadata(file domain.FileInfo) map[string]any {
	return map[string]any{
		"file_path": file.Path,
		"sha":       file.SHA,
		"file_url":  "file://" + filepath.Join(f.root, filepath.FromSlash(file.Path)),
	}
}

func (f *Fetcher) included(rel string) bool {
	for _, pattern := range f.includes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// isHidden reports whether any segment of the slash-separated path
// starts with a dot. The "." and ".." segments do not count.
func isHidden(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == "." || segment == ".." {
			continue
		}
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
