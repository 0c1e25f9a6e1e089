// ABOUTME: MCP tool implementations for reading the news feed.
// ABOUTME: Registers list_posts, get_post, get_stats, and check_health tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/newsdeck/internal/api"
	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/render"
)

const defaultListLimit = 10

func (s *Server) registerFeedTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_posts",
		Description: "List news posts, optionally filtered by a search phrase, provider, or content type.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"search": {"type": "string", "description": "Case-insensitive phrase matched against title, summary, and provider"},
				"provider": {"type": "string", "description": "Exact provider name"},
				"type": {"type": "string", "description": "Exact content type"},
				"limit": {"type": "number", "description": "Maximum number of posts to return (default 10)"},
				"offset": {"type": "number", "description": "Number of matching posts to skip (default 0)"}
			}
		}`),
	}, s.handleListPosts)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_post",
		Description: "Fetch a single news post by its numeric ID.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "number", "description": "Post ID", "minimum": 1}
			},
			"required": ["id"]
		}`),
	}, s.handleGetPost)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_stats",
		Description: "Summary statistics: total posts and counts per provider and type.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleGetStats)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "check_health",
		Description: "Check whether the aggregator API is reachable and healthy.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleCheckHealth)
}

func (s *Server) handleListPosts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Search   string `json:"search"`
		Provider string `json:"provider"`
		Type     string `json:"type"`
		Limit    int    `json:"limit"`
		Offset   int    `json:"offset"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultListLimit
	}
	if args.Offset < 0 {
		args.Offset = 0
	}

	posts, err := s.src.ListPosts(ctx, api.ListPostsOptions{})
	if err != nil {
		return toolError("failed to list posts: %v", err), nil
	}

	matched := feed.ApplyFilters(posts, feed.Filters{
		Search:   strings.TrimSpace(args.Search),
		Provider: args.Provider,
		Type:     args.Type,
	})
	if args.Offset >= len(matched) {
		return textResult(render.EmptyMessage), nil
	}
	page := matched[args.Offset:min(args.Offset+args.Limit, len(matched))]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Showing %d of %d matching posts\n", len(page), len(matched))
	for _, p := range page {
		sb.WriteString("---\n")
		if p.ID != 0 {
			fmt.Fprintf(&sb, "#%d ", p.ID)
		}
		fmt.Fprintf(&sb, "%s [%s]\n", p.Title, render.DisplayType(p))
		fmt.Fprintf(&sb, "%s · %s\n", render.DisplayProvider(p), render.FormatDate(p))
		if p.Summary != "" {
			fmt.Fprintf(&sb, "%s\n", p.Summary)
		}
		fmt.Fprintf(&sb, "%s\n", p.SourceURL)
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleGetPost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID <= 0 {
		return toolError("id is required"), nil
	}

	p, err := s.src.GetPost(ctx, args.ID)
	if err != nil {
		return toolError("failed to get post %d: %v", args.ID, err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Title)
	fmt.Fprintf(&sb, "Provider: %s\n", render.DisplayProvider(*p))
	fmt.Fprintf(&sb, "Type: %s\n", render.DisplayType(*p))
	fmt.Fprintf(&sb, "Released: %s\n", render.FormatDate(*p))
	fmt.Fprintf(&sb, "Source: %s\n", p.SourceURL)
	if p.ImageURL != "" {
		fmt.Fprintf(&sb, "Image: %s\n", p.ImageURL)
	}
	if p.Summary != "" {
		fmt.Fprintf(&sb, "\n%s\n", p.Summary)
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	stats, err := s.src.Stats(ctx)
	if err != nil {
		return toolError("failed to get stats: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total posts: %d\n", stats.TotalPosts)
	fmt.Fprintf(&sb, "Providers: %d\n", stats.ProviderCount())
	for _, pc := range stats.ByProvider {
		fmt.Fprintf(&sb, "  %s: %d\n", pc.Provider, pc.Count)
	}
	if len(stats.ByType) > 0 {
		sb.WriteString("Types:\n")
		for _, tc := range stats.ByType {
			fmt.Fprintf(&sb, "  %s: %d\n", tc.Type, tc.Count)
		}
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleCheckHealth(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	h, err := s.src.Health(ctx)
	if err != nil {
		return toolError("API unreachable: %v", err), nil
	}
	status := h.Status
	if status == "" {
		status = "healthy"
	}
	text := "API is " + status
	if h.Message != "" {
		text += ": " + h.Message
	}
	return textResult(text), nil
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
