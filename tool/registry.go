package tool

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by Registry operations.
var (
	// ErrNotFound is returned when a tool name is not registered.
	ErrNotFound = errors.New("tool not found")

	// ErrExists is returned when registering a duplicate tool name.
	ErrExists = errors.New("tool already registered")
)

// Registry manages tool definitions by name.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: returned Defs are value copies; mutating them does not affect
//   the registry.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Def
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Def),
	}
}

// Register adds a tool definition to the registry.
func (r *Registry) Register(d Def) error {
	if d.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if d.Execute == nil {
		return fmt.Errorf("tool %q has no Execute handler", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrExists, d.Name)
	}
	r.tools[d.Name] = d
	return nil
}

// Unregister removes a tool from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a tool definition by name.
func (r *Registry) Get(name string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// Names returns registered tool names sorted for deterministic output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of registered tools.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
