package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for wikivec resources.
const uriScheme = "wikivec://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for stored chunks, addressed by their source key.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{source}",
		Name:        "chunk",
		Description: "A stored wiki chunk, addressed by its source key",
		MIMEType:    "text/markdown",
	}, s.handleChunkResource)
}

// handleChunkResource resolves a stored chunk by its source key.
func (s *Server) handleChunkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractChunkKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Search.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("looking up chunk: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     result.ToMarkdown(),
		}},
	}, nil
}

// extractChunkKey extracts the chunk source key from a URI like
// wikivec://chunks/{source}. Keys contain "#", so clients may send
// them percent-encoded; both forms resolve.
func extractChunkKey(uri string) string {
	const prefix = uriScheme + "chunks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	key := strings.TrimPrefix(uri, prefix)
	if decoded, err := url.PathUnescape(key); err == nil {
		return decoded
	}
	return key
}
