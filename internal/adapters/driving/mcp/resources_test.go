package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

func TestExtractChunkKey(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "plain key",
			uri:      "wikivec://chunks/docs/setup.md#chunk-0",
			expected: "docs/setup.md#chunk-0",
		},
		{
			name:     "percent-encoded key",
			uri:      "wikivec://chunks/docs/setup.md%23chunk-0",
			expected: "docs/setup.md#chunk-0",
		},
		{
			name:     "invalid prefix",
			uri:      "file://chunks/docs/setup.md#chunk-0",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
		{
			name:     "prefix only",
			uri:      "wikivec://chunks/",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractChunkKey(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleChunkResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored chunk as markdown", func(t *testing.T) {
		mockSearch := &mockSearchService{
			chunk: &domain.SearchResult{
				ID:      "docs/setup.md#chunk-0",
				Source:  "docs/setup.md#chunk-0",
				Content: "Install the CLI first.",
				Score:   1,
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		req := makeReadResourceRequest("wikivec://chunks/docs/setup.md%23chunk-0")
		result, err := server.handleChunkResource(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "docs/setup.md#chunk-0", mockSearch.gotKey)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "### docs/setup.md#chunk-0")
		assert.Contains(t, result.Contents[0].Text, "Install the CLI first.")
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}}, nil)
		require.NoError(t, err)

		req := makeReadResourceRequest("wikivec://other/thing")
		_, err = server.handleChunkResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("missing chunk returns not found", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: fmt.Errorf("%w: docs/missing.md#chunk-9", domain.ErrNotFound),
		}

		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		req := makeReadResourceRequest("wikivec://chunks/docs/missing.md%23chunk-9")
		_, err = server.handleChunkResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns error on lookup failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("backend unreachable"),
		}

		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		req := makeReadResourceRequest("wikivec://chunks/docs/setup.md%23chunk-0")
		_, err = server.handleChunkResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "looking up chunk")
	})
}
