package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comnipl/servify/compiler"
	"github.com/comnipl/servify/compiler/plan"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

type toolAdder func(name string, tool mcp.Tool, h toolHandler)

func registerTools(addTool toolAdder, opts compiler.Options) {
	dirArg := mcp.WithString("dir",
		mcp.Description("Input root holding the CUE service declarations (default \".\")."))

	addTool("servify_plan", mcp.NewTool("servify_plan",
		mcp.WithDescription("Plan the actor code for every declared service and return the plan."),
		dirArg,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir := inputDir(request)
		p, err := compiler.Generate(ctx, dir, opts)
		if err != nil {
			return nil, err
		}
		r := summarize("servify_plan", p)
		r.Plan = p
		return r.Result(), nil
	})

	addTool("servify_validate", mcp.NewTool("servify_validate",
		mcp.WithDescription("Check the service declarations and report diagnostics without generating code."),
		dirArg,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := compiler.Generate(ctx, inputDir(request), opts)
		if err != nil {
			return nil, err
		}
		return summarize("servify_validate", p).Result(), nil
	})

	addTool("servify_render", mcp.NewTool("servify_render",
		mcp.WithDescription("Render the generated Go file of one service without writing it."),
		dirArg,
		mcp.WithString("service", mcp.Required(), mcp.Description("Service name as declared.")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		service := strings.TrimSpace(mcp.ParseString(request, "service", ""))
		if service == "" {
			return toolError("servify_render", fmt.Errorf("service is required")), nil
		}
		p, err := compiler.Generate(ctx, inputDir(request), opts)
		if err != nil {
			return nil, err
		}
		r := summarize("servify_render", p)
		if p.Status == plan.StatusFail {
			return r.Result(), nil
		}
		f, err := compiler.Preview(p, service)
		if err != nil {
			return nil, err
		}
		r.Artifacts = map[string]string{"path": f.Path, "source": string(f.Content)}
		return r.Result(), nil
	})
}

func inputDir(request mcp.CallToolRequest) string {
	dir := strings.TrimSpace(mcp.ParseString(request, "dir", "."))
	if dir == "" {
		return "."
	}
	return dir
}

func summarize(tool string, p *plan.Plan) *Report {
	services, ops := 0, 0
	for _, m := range p.Modules {
		services += len(m.Services)
		for _, s := range m.Services {
			ops += len(s.Operations)
		}
	}
	r := &Report{
		Tool:        tool,
		Status:      string(p.Status),
		Diagnostics: p.Diagnostics,
		Summary: []string{
			fmt.Sprintf("%d service(s), %d operation(s)", services, ops),
			fmt.Sprintf("%d error(s), %d diagnostic(s)", len(plan.Errors(p.Diagnostics)), len(p.Diagnostics)),
		},
	}
	if p.InputHash != "" {
		r.Artifacts = map[string]string{"input_hash": p.InputHash}
	}
	if p.Status == plan.StatusFail {
		r.NextActions = []string{"Fix the reported declarations and call " + tool + " again"}
	}
	return r
}
