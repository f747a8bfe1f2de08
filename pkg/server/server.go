package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"awsinfra/internal/audit"
	awslib "awsinfra/internal/aws"
	"awsinfra/internal/config"
	awsmcp "awsinfra/internal/mcp"
	"awsinfra/internal/redact"
)

type Options struct {
	ConfigPath         string
	Region             string
	Profile            string
	Toolsets           []string
	ReadOnly           bool
	DisableDestructive bool
	LogLevel           string
	Version            string
	Stderr             io.Writer
}

// Run loads configuration, wires the runtime, and serves MCP over
// stdio until the context ends. SIGHUP reloads configuration and
// re-registers tools in place.
func Run(ctx context.Context, opts Options) error {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	cfg, err := LoadConfig(opts)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	toolCtx, reg, err := NewRuntime(cfg, errOut)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "awsinfra", Version: opts.Version}, nil)
	toolNames, err := awsmcp.RegisterSDKTools(server, reg, toolCtx)
	if err != nil {
		return fmt.Errorf("tool registration failed: %w", err)
	}
	toolCtx.Log.WithFields(logrus.Fields{"tools": len(toolNames), "toolsets": strings.Join(cfg.Toolsets, ",")}).Info("serving MCP over stdio")

	reloadCh := make(chan os.Signal, 1)
	notifyReload(reloadCh)
	go func() {
		for range reloadCh {
			cfg, err := LoadConfig(opts)
			if err != nil {
				fmt.Fprintf(errOut, "config reload failed: %v\n", err)
				continue
			}
			toolCtx, reg, err := NewRuntime(cfg, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "reload init failed: %v\n", err)
				continue
			}
			if len(toolNames) > 0 {
				server.RemoveTools(toolNames...)
			}
			toolNames, err = awsmcp.RegisterSDKTools(server, reg, toolCtx)
			if err != nil {
				fmt.Fprintf(errOut, "tool registration failed: %v\n", err)
				continue
			}
			toolCtx.Log.WithField("tools", len(toolNames)).Info("configuration reloaded")
		}
	}()

	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// LoadConfig resolves the config path (flag, then AWSINFRA_CONFIG) and
// applies option overrides on top of the loaded file.
func LoadConfig(opts Options) (config.Config, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		if env := os.Getenv("AWSINFRA_CONFIG"); env != "" {
			configPath = env
		}
	}
	return config.Load(configPath, "", buildOverrides(opts))
}

func buildOverrides(opts Options) config.Overrides {
	overrides := config.Overrides{}
	if opts.Region != "" {
		overrides.Region = &opts.Region
	}
	if opts.Profile != "" {
		overrides.Profile = &opts.Profile
	}
	if len(opts.Toolsets) > 0 {
		overrides.Toolsets = &opts.Toolsets
	}
	if opts.ReadOnly {
		overrides.ReadOnly = &opts.ReadOnly
	}
	if opts.DisableDestructive {
		overrides.DisableDestructive = &opts.DisableDestructive
	}
	if opts.LogLevel != "" {
		overrides.LogLevel = &opts.LogLevel
	}
	return overrides
}

// NewRuntime constructs the tool context and populated registry for
// one configuration. The client cache is created here, once, and every
// tool call reaches it through the context.
func NewRuntime(cfg config.Config, errOut io.Writer) (awsmcp.ToolContext, *awsmcp.ToolRegistry, error) {
	reg := awsmcp.NewRegistry(&cfg)
	toolCtx := awsmcp.ToolContext{
		Config:   &cfg,
		AWS:      awslib.NewClients(cfg.Profile),
		Redactor: redact.New(),
		Audit:    audit.NewLogger(errOut),
		Log:      newLogger(cfg.LogLevel, errOut),
		Services: awsmcp.NewServiceRegistry(),
		Registry: reg,
	}
	toolCtx.Invoker = awsmcp.NewToolInvoker(reg, toolCtx)
	toolsetCtx := awsmcp.ToolsetContext(toolCtx)

	for _, id := range cfg.Toolsets {
		factory, ok := awsmcp.ToolsetFactoryFor(id)
		if !ok {
			return awsmcp.ToolContext{}, nil, fmt.Errorf("unknown toolset: %s", id)
		}
		toolset := factory()
		if err := toolset.Init(toolsetCtx); err != nil {
			return awsmcp.ToolContext{}, nil, err
		}
		if err := toolset.Register(reg); err != nil {
			return awsmcp.ToolContext{}, nil, err
		}
	}

	return toolCtx, reg, nil
}

// LOG_LEVEL from the environment outranks the configured level; it has
// no effect beyond diagnostic verbosity.
func newLogger(level string, out io.Writer) *logrus.Logger {
	if env := strings.TrimSpace(os.Getenv("LOG_LEVEL")); env != "" {
		level = env
	}
	parsed, err := logrus.ParseLevel(strings.TrimSpace(strings.ToLower(level)))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(parsed)
	return log
}
