// In file: internal/tools/registry.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrToolNotFound is returned when invoking a name that was never registered.
var ErrToolNotFound = errors.New("tool not found")

// MissingParametersError reports required parameters absent from an invocation.
type MissingParametersError struct {
	Tool    string
	Missing []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("tool %q: missing required parameters: %s", e.Tool, strings.Join(e.Missing, ", "))
}

// UnboundToolError reports a descriptor registered without a callable.
type UnboundToolError struct {
	Tool string
}

func (e *UnboundToolError) Error() string {
	return fmt.Sprintf("tool %q has no implementation bound", e.Tool)
}

// Registry holds all available tools keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Descriptor)}
}

// Register adds a tool. A later registration under the same name replaces the earlier one.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[d.Name] = d
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// Invoke validates params against the tool's required set and runs it.
// The callable is never run when validation fails.
func (r *Registry) Invoke(ctx context.Context, name string, params Params) (any, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	var missing []string
	for _, req := range d.Required {
		if _, ok := params[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingParametersError{Tool: name, Missing: missing}
	}

	if d.Func == nil {
		return nil, &UnboundToolError{Tool: name}
	}
	return d.Func(ctx, params)
}

// List returns every registered descriptor sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.tools))
	for _, d := range r.tools {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListByCategory returns the descriptors of one category sorted by name.
func (r *Registry) ListByCategory(c Category) []Descriptor {
	var out []Descriptor
	for _, d := range r.List() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
