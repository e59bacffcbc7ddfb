package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comnipl/servify/compiler/plan"
)

// Report is the response body of every servify tool.
type Report struct {
	Tool        string            `json:"tool"`
	Status      string            `json:"status"`
	Summary     []string          `json:"summary"`
	Diagnostics []plan.Diagnostic `json:"diagnostics,omitempty"`
	NextActions []string          `json:"next_actions,omitempty"`
	Artifacts   map[string]string `json:"artifacts,omitempty"`
	Plan        *plan.Plan        `json:"plan,omitempty"`
}

func (r *Report) ToJSON() string {
	b, _ := json.MarshalIndent(r, "", "  ")
	return string(b)
}

func (r *Report) Result() *mcp.CallToolResult {
	res := mcp.NewToolResultText(r.ToJSON())
	res.IsError = r.Status == "tool_error"
	return res
}

func toolError(name string, err error) *mcp.CallToolResult {
	return (&Report{
		Tool:    name,
		Status:  "tool_error",
		Summary: []string{err.Error()},
	}).Result()
}
