package mcp

import (
	"context"
	"testing"

	"awsinfra/internal/config"
)

func testSpec(name string, safety ToolSafety) ToolSpec {
	return ToolSpec{
		Name:      name,
		ToolsetID: "aws",
		Safety:    safety,
		Handler: func(context.Context, ToolRequest) (ToolResult, error) {
			return ToolResult{Data: Success(map[string]any{})}, nil
		},
	}
}

func TestRegistryRequiresNameAndHandler(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Add(ToolSpec{Handler: func(context.Context, ToolRequest) (ToolResult, error) {
		return ToolResult{}, nil
	}}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if err := reg.Add(ToolSpec{Name: "aws.test.noop"}); err == nil {
		t.Fatal("expected error for missing handler")
	}
}

func TestRegistryReadOnlyGating(t *testing.T) {
	cfg := config.Config{ReadOnly: true}
	reg := NewRegistry(&cfg)
	for _, spec := range []ToolSpec{
		testSpec("aws.test.read", SafetyReadOnly),
		testSpec("aws.test.write", SafetyWrite),
		testSpec("aws.test.risky", SafetyRiskyWrite),
		testSpec("aws.test.destroy", SafetyDestructive),
	} {
		if err := reg.Add(spec); err != nil {
			t.Fatalf("add %s: %v", spec.Name, err)
		}
	}
	if _, ok := reg.Get("aws.test.read"); !ok {
		t.Fatal("read-only tool should register")
	}
	for _, name := range []string{"aws.test.write", "aws.test.risky", "aws.test.destroy"} {
		if _, ok := reg.Get(name); ok {
			t.Fatalf("%s should be filtered in read-only mode", name)
		}
	}
}

func TestRegistryDisableDestructiveAllowlist(t *testing.T) {
	cfg := config.Config{
		DisableDestructive: true,
		Safety:             config.SafetyConfig{AllowDestructiveTools: []string{"aws.test.destroy"}},
	}
	reg := NewRegistry(&cfg)
	for _, spec := range []ToolSpec{
		testSpec("aws.test.write", SafetyWrite),
		testSpec("aws.test.risky", SafetyRiskyWrite),
		testSpec("aws.test.destroy", SafetyDestructive),
	} {
		if err := reg.Add(spec); err != nil {
			t.Fatalf("add %s: %v", spec.Name, err)
		}
	}
	if _, ok := reg.Get("aws.test.write"); !ok {
		t.Fatal("plain write should register with destructive disabled")
	}
	if _, ok := reg.Get("aws.test.risky"); ok {
		t.Fatal("risky write should be filtered")
	}
	if _, ok := reg.Get("aws.test.destroy"); !ok {
		t.Fatal("allowlisted destructive tool should register")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"aws.z.last", "aws.a.first", "aws.m.middle"} {
		if err := reg.Add(testSpec(name, SafetyReadOnly)); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	infos := reg.List()
	if len(infos) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(infos))
	}
	if infos[0].Name != "aws.a.first" || infos[2].Name != "aws.z.last" {
		t.Fatalf("list not sorted: %v", infos)
	}
}
