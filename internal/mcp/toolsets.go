package mcp

import (
	"fmt"
	"sort"
	"sync"
)

// Toolset is one installable group of AWS tools, such as the "aws"
// account inspection set. The server resolves configured toolset ids
// to factories, then drives each instance through Init and Register.
type Toolset interface {
	ID() string
	Version() string
	Init(ctx ToolsetContext) error
	Register(reg Registry) error
}

// ToolsetFactory builds a fresh Toolset instance per runtime.
type ToolsetFactory func() Toolset

var (
	toolsetsMu sync.RWMutex
	toolsets   = map[string]ToolsetFactory{}
)

// RegisterToolset records a factory under its toolset id. Toolset
// packages call this from init, so duplicate ids and nil factories are
// programming errors and reported as such.
func RegisterToolset(id string, factory ToolsetFactory) error {
	if id == "" {
		return fmt.Errorf("toolset id required")
	}
	if factory == nil {
		return fmt.Errorf("toolset %s: factory required", id)
	}
	toolsetsMu.Lock()
	defer toolsetsMu.Unlock()
	if _, exists := toolsets[id]; exists {
		return fmt.Errorf("toolset %s already registered", id)
	}
	toolsets[id] = factory
	return nil
}

// MustRegisterToolset is RegisterToolset for init-time use.
func MustRegisterToolset(id string, factory ToolsetFactory) {
	if err := RegisterToolset(id, factory); err != nil {
		panic(err)
	}
}

// ToolsetFactoryFor looks up the factory for a configured toolset id.
func ToolsetFactoryFor(id string) (ToolsetFactory, bool) {
	toolsetsMu.RLock()
	defer toolsetsMu.RUnlock()
	factory, ok := toolsets[id]
	return factory, ok
}

// RegisteredToolsets returns every known toolset id in sorted order.
func RegisteredToolsets() []string {
	toolsetsMu.RLock()
	defer toolsetsMu.RUnlock()
	ids := make([]string, 0, len(toolsets))
	for id := range toolsets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
