// Package connectors provides source fetcher implementations. Each
// subpackage knows how to list and read files from one source kind:
// github crawls a repository through the GitHub API, localfs walks a
// local directory tree.
package connectors
