package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// searchLimit is the fixed number of results the search tool returns.
const searchLimit = 5

// SearchWikiInput is the input schema for the search_wiki tool.
type SearchWikiInput struct {
	Query string `json:"query" jsonschema:"the search query to run against the wiki"`
}

// SearchWikiOutput is the output schema for the search_wiki tool.
type SearchWikiOutput struct {
	Markdown string `json:"markdown"`
	Count    int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_wiki",
		Description: "Search the wiki for relevant information",
	}, s.handleSearchWiki)
}

// handleSearchWiki handles the search_wiki tool invocation. Results
// are rendered as one markdown document, nearest first.
func (s *Server) handleSearchWiki(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchWikiInput,
) (*mcp.CallToolResult, SearchWikiOutput, error) {
	s.log.Info("searching wiki", "query", input.Query)

	results, err := s.ports.Search.Search(ctx, input.Query, searchLimit)
	if err != nil {
		return nil, SearchWikiOutput{}, err
	}

	blocks := make([]string, len(results))
	for i := range results {
		blocks[i] = results[i].ToMarkdown()
	}
	markdown := strings.Join(blocks, "\n")

	s.log.Info("search completed", "results", len(results))

	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: markdown}},
	}
	return res, SearchWikiOutput{Markdown: markdown, Count: len(results)}, nil
}
