// Package mcp exposes the generator as Model Context Protocol tools over
// stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comnipl/servify/compiler"
)

// NewServer registers the servify tools on a new MCP server.
func NewServer(opts compiler.Options) *server.MCPServer {
	s := server.NewMCPServer(
		"servify",
		compiler.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	registerTools(func(name string, tool mcp.Tool, h toolHandler) {
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return safeInvokeTool(name, func() (*mcp.CallToolResult, error) {
				resp, err := h(ctx, request)
				if err != nil {
					return toolError(name, err), nil
				}
				return resp, nil
			})
		})
	}, opts)
	return s
}

// Run serves the tools on stdin and stdout until the client disconnects.
func Run(opts compiler.Options) error {
	return server.ServeStdio(NewServer(opts))
}
