package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

func TestServer_handleSearchWiki(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown-joined results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					ID:      "docs/setup.md#chunk-0",
					Source:  "docs/setup.md#chunk-0",
					Content: "Install the CLI first.",
					Score:   0.91,
				},
				{
					ID:      "docs/usage.md#chunk-2",
					Source:  "docs/usage.md#chunk-2",
					Content: "Run wikivec crawl to index.",
					Score:   0.84,
				},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		input := SearchWikiInput{Query: "how do I install"}
		res, output, err := server.handleSearchWiki(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Contains(t, output.Markdown, "### docs/setup.md#chunk-0")
		assert.Contains(t, output.Markdown, "### docs/usage.md#chunk-2")
		assert.Contains(t, output.Markdown, "Install the CLI first.")

		assert.Equal(t, "how do I install", mockSearch.gotQuery)
		assert.Equal(t, searchLimit, mockSearch.gotLimit)

		require.NotNil(t, res)
		require.Len(t, res.Content, 1)
		text, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, output.Markdown, text.Text)
	})

	t.Run("empty results produce empty markdown", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		input := SearchWikiInput{Query: "nothing matches"}
		_, output, err := server.handleSearchWiki(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Markdown)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("embedding unavailable"),
		}

		server, err := NewServer(&Ports{Search: mockSearch}, nil)
		require.NoError(t, err)

		input := SearchWikiInput{Query: "anything"}
		_, _, err = server.handleSearchWiki(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding unavailable")
	})
}
