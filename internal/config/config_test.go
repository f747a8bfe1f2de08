package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Toolsets) != 1 || cfg.Toolsets[0] != "aws" {
		t.Fatalf("unexpected default toolsets: %v", cfg.Toolsets)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.LogLevel)
	}
	if cfg.ReadOnly || cfg.DisableDestructive {
		t.Fatal("safety toggles should default off")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
region = "eu-west-1"
profile = "staging"
read_only = true

[timeouts]
default_seconds = 45

[timeouts.per_tool]
"aws.s3.delete_bucket" = 120
`)
	cfg, err := Load(path, "", Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Region != "eu-west-1" || cfg.Profile != "staging" || !cfg.ReadOnly {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Timeouts.DefaultSeconds != 45 || cfg.Timeouts.PerTool["aws.s3.delete_bucket"] != 120 {
		t.Fatalf("timeouts not applied: %+v", cfg.Timeouts)
	}
	if len(cfg.Toolsets) != 1 || cfg.Toolsets[0] != "aws" {
		t.Fatalf("defaults should survive merge: %v", cfg.Toolsets)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "", Overrides{}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadDropInOrder(t *testing.T) {
	dir := t.TempDir()
	dropDir := filepath.Join(dir, "conf.d")
	if err := os.Mkdir(dropDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, dropDir, "10-region.toml", `region = "us-west-2"`)
	writeConfig(t, dropDir, "20-region.toml", `region = "ap-southeast-1"`)

	cfg, err := Load("", dropDir, Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Region != "ap-southeast-1" {
		t.Fatalf("later drop-in should win, got %s", cfg.Region)
	}
}

func TestLoadMissingDropInDirIgnored(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "conf.d"), Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
region = "eu-west-1"
log_level = "debug"
`)
	region := "us-east-2"
	readOnly := true
	toolsets := []string{"aws"}
	cfg, err := Load(path, "", Overrides{
		Region:   &region,
		ReadOnly: &readOnly,
		Toolsets: &toolsets,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Region != "us-east-2" {
		t.Fatalf("override should beat file, got %s", cfg.Region)
	}
	if !cfg.ReadOnly {
		t.Fatal("read-only override not applied")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("untouched file value lost: %s", cfg.LogLevel)
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `region = [broken`)
	if _, err := Load(path, "", Overrides{}); err == nil {
		t.Fatal("expected parse error")
	}
}
