package mcp

import (
	"strings"
	"testing"
)

type noopToolset struct{}

func (noopToolset) ID() string                { return "noop" }
func (noopToolset) Version() string           { return "test" }
func (noopToolset) Init(ToolsetContext) error { return nil }
func (noopToolset) Register(Registry) error   { return nil }

func TestRegisterToolsetValidation(t *testing.T) {
	if err := RegisterToolset("", func() Toolset { return noopToolset{} }); err == nil {
		t.Fatal("expected error for empty id")
	}
	if err := RegisterToolset("aws.test.nilfactory", nil); err == nil {
		t.Fatal("expected error for nil factory")
	}
}

func TestRegisterToolsetDuplicate(t *testing.T) {
	factory := func() Toolset { return noopToolset{} }
	if err := RegisterToolset("aws.test.dup", factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := RegisterToolset("aws.test.dup", factory)
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if !strings.Contains(err.Error(), "aws.test.dup") {
		t.Fatalf("error should name the toolset id: %v", err)
	}
}

func TestToolsetFactoryFor(t *testing.T) {
	if err := RegisterToolset("aws.test.lookup", func() Toolset { return noopToolset{} }); err != nil {
		t.Fatalf("register: %v", err)
	}
	factory, ok := ToolsetFactoryFor("aws.test.lookup")
	if !ok || factory == nil {
		t.Fatal("expected factory for registered toolset")
	}
	if factory().ID() != "noop" {
		t.Fatal("factory returned wrong toolset")
	}
	if _, ok := ToolsetFactoryFor("aws.test.absent"); ok {
		t.Fatal("expected miss for unregistered toolset")
	}
}

func TestRegisteredToolsetsSorted(t *testing.T) {
	for _, id := range []string{"aws.test.zz", "aws.test.aa"} {
		if err := RegisterToolset(id, func() Toolset { return noopToolset{} }); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	ids := RegisteredToolsets()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
}
