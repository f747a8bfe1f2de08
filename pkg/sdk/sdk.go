// Package sdk re-exports the types out-of-tree toolsets need to
// register tools against an awsinfra server.
package sdk

import (
	awslib "awsinfra/internal/aws"
	"awsinfra/internal/mcp"
	"awsinfra/internal/redact"
	"awsinfra/internal/render"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type ToolSpec = mcp.ToolSpec

type ToolHandler = mcp.ToolHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type ToolMetadata = mcp.ToolMetadata

type Registry = mcp.Registry

const (
	SafetyReadOnly    = mcp.SafetyReadOnly
	SafetyWrite       = mcp.SafetyWrite
	SafetyRiskyWrite  = mcp.SafetyRiskyWrite
	SafetyDestructive = mcp.SafetyDestructive
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory mcp.ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory mcp.ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

// Shared services and invoker.
type ServiceRegistry = mcp.ServiceRegistry

type ToolInvoker = mcp.ToolInvoker

// AWS client cache and identity helpers.
type Clients = awslib.Clients

type Identity = awslib.Identity

func NewClients(profile string) *awslib.Clients {
	return awslib.NewClients(profile)
}

func ResolveIdentity(region, configuredProfile string) awslib.Identity {
	return awslib.ResolveIdentity(region, configuredProfile)
}

// Envelope helpers.
type Category = mcp.Category

type ErrorRecord = mcp.ErrorRecord

func Success(payload map[string]any) map[string]any {
	return mcp.Success(payload)
}

func SuccessCount(payload map[string]any, count int) map[string]any {
	return mcp.SuccessCount(payload, count)
}

func FailureEnvelope(err error) map[string]any {
	return mcp.FailureEnvelope(err)
}

func Normalize(err error) mcp.ErrorRecord {
	return mcp.Normalize(err)
}

// Rendering and redaction.
type Redactor = redact.Redactor

type Format = render.Format

func Render(envelope map[string]any, format render.Format) (string, error) {
	return render.Render(envelope, format)
}
