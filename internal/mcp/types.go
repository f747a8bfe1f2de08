package mcp

import (
	"context"

	"github.com/sirupsen/logrus"

	awslib "awsinfra/internal/aws"
	"awsinfra/internal/audit"
	"awsinfra/internal/config"
	"awsinfra/internal/redact"
)

type ToolSafety string

const (
	SafetyReadOnly    ToolSafety = "read_only"
	SafetyWrite       ToolSafety = "write"
	SafetyRiskyWrite  ToolSafety = "risky_write"
	SafetyDestructive ToolSafety = "destructive"
)

type ToolHandler func(ctx context.Context, req ToolRequest) (ToolResult, error)

type ToolSpec struct {
	Name        string
	Description string
	ToolsetID   string
	InputSchema map[string]any
	Safety      ToolSafety
	Handler     ToolHandler
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRequest struct {
	Arguments map[string]any
	Context   ToolContext
}

// ToolResult carries the envelope payload plus metadata surfaced to
// the MCP runtime. Data is either a success envelope or nil when the
// handler errored.
type ToolResult struct {
	Data     any
	Metadata ToolMetadata
}

type ToolMetadata struct {
	Region    string   `json:"region,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

type ToolContext struct {
	Config   *config.Config
	AWS      *awslib.Clients
	Redactor *redact.Redactor
	Audit    *audit.Logger
	Log      *logrus.Logger
	Services *ServiceRegistry
	Invoker  *ToolInvoker
	Registry Registry
}

type ToolsetContext = ToolContext
