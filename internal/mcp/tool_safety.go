package mcp

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
)

// safeInvokeTool turns a handler panic into a tool_error result instead of
// crashing the MCP process and closing the transport.
func safeInvokeTool(name string, h func() (*mcp.CallToolResult, error)) (resp *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool panic", "tool", name, "panic", r)
			resp = toolError(name, fmt.Errorf("tool panic: %v", r))
			err = nil
		}
	}()
	return h()
}
