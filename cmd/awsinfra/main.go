package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"awsinfra/internal/mcp"
	"awsinfra/internal/render"
	"awsinfra/pkg/server"

	_ "awsinfra/toolsets/aws"
)

const version = "0.1.0"

var runServer = server.Run
var exit = os.Exit

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	region := flags.String("region", "", "default AWS region")
	profile := flags.String("profile", "", "AWS shared config profile")
	toolsets := flags.String("toolsets", "", "comma-separated toolsets to enable")
	configPath := flags.String("config", "", "config file path")
	readOnly := flags.Bool("read-only", false, "register read-only tools only")
	disableDestructive := flags.Bool("disable-destructive", false, "disable destructive tools")
	logLevel := flags.String("log-level", "", "log level")
	output := flags.String("output", "json", "output format for tools/call (json|yaml|table)")

	_ = flags.Parse(os.Args[1:])

	options := server.Options{
		ConfigPath: *configPath,
		Version:    version,
		Stderr:     os.Stderr,
	}
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["region"] {
		options.Region = *region
	}
	if set["profile"] {
		options.Profile = *profile
	}
	if set["toolsets"] {
		options.Toolsets = parseCSV(*toolsets)
	}
	if set["read-only"] {
		options.ReadOnly = *readOnly
	}
	if set["disable-destructive"] {
		options.DisableDestructive = *disableDestructive
	}
	if set["log-level"] {
		options.LogLevel = *logLevel
	}

	args := flags.Args()
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	var err error
	switch command {
	case "serve":
		err = runServer(ctx, options)
	case "tools":
		err = runTools(options, *output)
	case "call":
		err = runCall(ctx, options, args[1:], *output)
	default:
		err = fmt.Errorf("unknown command: %s", command)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		exit(1)
	}
}

func runTools(options server.Options, outputFormat string) error {
	format, err := render.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	cfg, err := server.LoadConfig(options)
	if err != nil {
		return err
	}
	_, reg, err := server.NewRuntime(cfg, options.Stderr)
	if err != nil {
		return err
	}
	infos := reg.List()
	items := make([]any, 0, len(infos))
	for _, info := range infos {
		items = append(items, map[string]any{
			"name":        info.Name,
			"description": info.Description,
		})
	}
	out, err := render.Render(mcp.SuccessCount(map[string]any{"tools": items}, len(items)), format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runCall(ctx context.Context, options server.Options, args []string, outputFormat string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: call <tool-name> [json-arguments]")
	}
	format, err := render.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	toolArgs := map[string]any{}
	if len(args) > 1 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("invalid tool arguments: %w", err)
		}
	}
	if options.Region != "" {
		if _, ok := toolArgs["region"]; !ok {
			toolArgs["region"] = options.Region
		}
	}

	cfg, err := server.LoadConfig(options)
	if err != nil {
		return err
	}
	toolCtx, _, err := server.NewRuntime(cfg, options.Stderr)
	if err != nil {
		return err
	}

	result, callErr := toolCtx.CallTool(ctx, args[0], toolArgs)
	envelope := map[string]any{}
	if callErr != nil {
		envelope = mcp.FailureEnvelope(callErr)
	} else if data, ok := result.Data.(map[string]any); ok {
		envelope = data
	} else {
		envelope = mcp.Success(map[string]any{"result": result.Data})
	}
	out, err := render.Render(envelope, format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	if callErr != nil {
		return fmt.Errorf("tool %s failed", args[0])
	}
	return nil
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
