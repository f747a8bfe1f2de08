package mcp

import (
	"context"
	"errors"
)

// CallTool lets one tool invoke another through the shared invoker.
func (t ToolContext) CallTool(ctx context.Context, toolName string, args map[string]any) (ToolResult, error) {
	if t.Invoker == nil {
		return ToolResult{}, errors.New("tool invoker not available")
	}
	return t.Invoker.Call(ctx, toolName, args)
}
