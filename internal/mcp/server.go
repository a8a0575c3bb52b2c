// ABOUTME: MCP server initialization and configuration for wupy.
// ABOUTME: Exposes feed and notification intents as tools for AI agent access.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/wupy/internal/app"
)

// Server wraps the MCP server around a started App.
type Server struct {
	mcp *gomcp.Server
	app *app.App
}

// NewServer creates an MCP server with feed and notification tools.
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("app is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "wupy",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp: mcpServer,
		app: a,
	}

	s.registerFeedTools()
	s.registerNotificationTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolText(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}
