package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// DefaultBranch is used when no branch is configured and the
// repository's default branch has not been resolved.
const DefaultBranch = "main"

var _ driven.SourceFetcher = (*Fetcher)(nil)

// Fetcher retrieves files from one GitHub repository at a fixed ref.
type Fetcher struct {
	client *Client
	owner  string
	repo   string
	branch string
	log    *slog.Logger
}

// NewFetcher creates a fetcher for owner/repo at branch. An empty
// branch falls back to DefaultBranch; call ResolveDefaultBranch to
// use the repository's actual default instead.
func NewFetcher(client *Client, owner, repo, branch string, log *slog.Logger) *Fetcher {
	if branch == "" {
		branch = DefaultBranch
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Fetcher{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: branch,
		log:    log,
	}
}

// ParseRepoURL extracts owner and repository name from a GitHub URL.
// It accepts full URLs ("https://github.com/acme/wiki"), scheme-less
// forms ("github.com/acme/wiki") and the "owner/repo" shorthand.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", ErrInvalidRepoURL
	}

	if !strings.Contains(raw, "://") {
		raw = strings.TrimPrefix(raw, "github.com/")
		raw = strings.TrimPrefix(raw, "www.github.com/")
	}

	u, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}
	if u.Host != "" && u.Host != "github.com" && u.Host != "www.github.com" {
		return "", "", fmt.Errorf("%w: host %q", ErrInvalidRepoURL, u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRepoURL, raw)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// ResolveDefaultBranch queries the repository and switches the
// fetcher to its default branch.
func (f *Fetcher) ResolveDefaultBranch(ctx context.Context) error {
	repository, err := f.client.GetRepository(ctx, f.owner, f.repo)
	if err != nil {
		return err
	}
	if branch := repository.GetDefaultBranch(); branch != "" {
		f.branch = branch
	}
	return nil
}

// Branch returns the ref the fetcher reads from.
func (f *Fetcher) Branch() string {
	return f.branch
}

// Source identifies the repository being crawled.
func (f *Fetcher) Source() string {
	return fmt.Sprintf("https://github.com/%s/%s", f.owner, f.repo)
}

// ListFiles returns every blob in the branch's tree.
func (f *Fetcher) ListFiles(ctx context.Context) ([]domain.FileInfo, error) {
	tree, err := f.client.GetTree(ctx, f.owner, f.repo, f.branch)
	if err != nil {
		return nil, err
	}

	files := blobFiles(tree)

	if tree.GetTruncated() {
		f.log.Warn("tree listing truncated by API",
			"repo", f.Source(),
			"files", len(files))
	}
	f.log.Info("listed repository files",
		"repo", f.Source(),
		"branch", f.branch,
		"files", len(files))

	return files, nil
}

// FetchContent retrieves one file's text at the fetcher's ref.
// Invalid UTF-8 sequences are dropped so downstream chunking always
// sees valid text.
func (f *Fetcher) FetchContent(ctx context.Context, file domain.FileInfo) (string, error) {
	content, err := f.client.GetFileContent(ctx, f.owner, f.repo, file.Path, f.branch)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(content, ""), nil
}

// FileMetadata describes a file for chunk provenance.
func (f *Fetcher) FileMetadata(file domain.FileInfo) map[string]any {
	return map[string]any{
		"file_path":  file.Path,
		"sha":        file.SHA,
		"github_url": fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", f.owner, f.repo, f.branch, file.Path),
	}
}

// blobFiles filters a tree down to its file entries. Directories and
// submodule pointers are dropped.
func blobFiles(tree *gh.Tree) []domain.FileInfo {
	var files []domain.FileInfo
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		files = append(files, domain.FileInfo{
			Path: entry.GetPath(),
			SHA:  entry.GetSHA(),
			Size: int64(entry.GetSize()),
		})
	}
	return files
}
