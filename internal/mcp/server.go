// ABOUTME: MCP server initialization and configuration for newsdeck.
// ABOUTME: Exposes the aggregator feed to AI agents as read-only tools over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/newsdeck/internal/api"
	"github.com/2389-research/newsdeck/internal/models"
)

// Source is the aggregator API surface the tools read from. *api.Client satisfies it.
type Source interface {
	ListPosts(ctx context.Context, opts api.ListPostsOptions) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Health(ctx context.Context) (*models.Health, error)
}

// Server wraps the MCP server with the feed source.
type Server struct {
	mcp     *gomcp.Server
	src     Source
	version string
}

// ServerOption configures optional Server settings.
type ServerOption func(*Server)

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates an MCP server with feed tools.
func NewServer(src Source, opts ...ServerOption) (*Server, error) {
	if src == nil {
		return nil, fmt.Errorf("feed source is required")
	}

	s := &Server{
		src:     src,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "newsdeck",
			Version: s.version,
		},
		nil,
	)

	s.registerFeedTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
