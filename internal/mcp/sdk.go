package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"awsinfra/internal/audit"
)

// RegisterSDKTools binds every registered spec to the MCP SDK server.
// Each tool's input schema is compiled once so arguments are validated
// before the handler runs.
func RegisterSDKTools(server *sdkmcp.Server, reg *ToolRegistry, ctx ToolContext) ([]string, error) {
	if server == nil || reg == nil {
		return nil, fmt.Errorf("server and registry are required")
	}
	toolNames := reg.Names()
	for _, spec := range reg.Specs() {
		schema := spec.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		compiled, err := compileSchema(spec.Name, schema)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", spec.Name, err)
		}
		tool := &sdkmcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
		}
		server.AddTool(tool, toolHandler(spec, compiled, ctx))
	}
	return toolNames, nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	url := "mem://" + name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// toolHandler is the tool-call boundary: decode and validate
// arguments, run the handler under the configured timeout, and wrap
// every outcome in an envelope. Nothing raw crosses back to the
// runtime, panics included.
func toolHandler(spec ToolSpec, schema *jsonschema.Schema, ctx ToolContext) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (res *sdkmcp.CallToolResult, _ error) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("tool %s panicked: %v", spec.Name, r)
				logAudit(ctx, spec, ToolMetadata{}, "error", err)
				res = buildCallToolResult(ToolResult{}, err)
			}
		}()

		args := map[string]any{}
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return buildCallToolResult(ToolResult{}, fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}
		if schema != nil {
			if err := schema.Validate(any(args)); err != nil {
				logAudit(ctx, spec, ToolMetadata{}, "error", err)
				return buildCallToolResult(ToolResult{}, err), nil
			}
		}

		execCtx, cancel := withToolTimeout(callCtx, ctx.Config, spec)
		result, toolErr := spec.Handler(execCtx, ToolRequest{Arguments: args, Context: ctx})
		cancel()
		outcome := "success"
		if toolErr != nil {
			outcome = "error"
		}
		logAudit(ctx, spec, result.Metadata, outcome, toolErr)

		return buildCallToolResult(result, toolErr), nil
	}
}

func buildCallToolResult(result ToolResult, toolErr error) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{}
	if result.Metadata.Region != "" || len(result.Metadata.Resources) > 0 {
		res.Meta = sdkmcp.Meta{
			"region":    result.Metadata.Region,
			"resources": result.Metadata.Resources,
		}
	}
	if toolErr != nil {
		res.IsError = true
		res.StructuredContent = FailureEnvelope(toolErr)
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: toolErr.Error()}}
		return res
	}

	if result.Data != nil {
		res.StructuredContent = result.Data
		dataJSON, err := json.Marshal(result.Data)
		if err != nil {
			res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf("%v", result.Data)}}
		} else {
			res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: string(dataJSON)}}
		}
	} else {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: "{}"}}
	}
	return res
}

func logAudit(ctx ToolContext, spec ToolSpec, meta ToolMetadata, outcome string, err error) {
	if ctx.Audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		Tool:      spec.Name,
		Toolset:   spec.ToolsetID,
		Region:    meta.Region,
		Resources: meta.Resources,
		Outcome:   outcome,
	}
	if err != nil {
		event.Error = err.Error()
	}
	ctx.Audit.Log(event)
}
