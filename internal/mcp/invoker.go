package mcp

import (
	"context"
	"errors"
)

// ToolInvoker dispatches a named tool call against the registry. Used
// by the CLI call path and by tools that compose other tools.
type ToolInvoker struct {
	reg *ToolRegistry
	ctx ToolContext
}

func NewToolInvoker(reg *ToolRegistry, ctx ToolContext) *ToolInvoker {
	return &ToolInvoker{reg: reg, ctx: ctx}
}

func (i *ToolInvoker) Call(ctx context.Context, toolName string, args map[string]any) (ToolResult, error) {
	if i == nil || i.reg == nil {
		return ToolResult{}, errors.New("tool registry not available")
	}
	spec, ok := i.reg.Get(toolName)
	if !ok {
		return ToolResult{}, errors.New("tool not found: " + toolName)
	}
	execCtx, cancel := withToolTimeout(ctx, i.ctx.Config, spec)
	result, toolErr := spec.Handler(execCtx, ToolRequest{Arguments: args, Context: i.ctx})
	cancel()
	outcome := "success"
	if toolErr != nil {
		outcome = "error"
	}
	logAudit(i.ctx, spec, result.Metadata, outcome, toolErr)
	return result, toolErr
}
