// Package schemadoc keeps human-readable field documentation for the API
// shapes apart from the shapes themselves.
package schemadoc

import (
	"sort"
	"sync"
)

// FieldDoc documents one JSON field of a shape.
type FieldDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description"`
	Example     any    `json:"example,omitempty"`
}

// Table documents a whole shape.
type Table struct {
	Shape       string     `json:"shape"`
	Direction   string     `json:"direction"`
	Description string     `json:"description"`
	Fields      []FieldDoc `json:"fields"`
}

// Field looks a field up by JSON name.
func (t Table) Field(name string) (FieldDoc, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDoc{}, false
}

// Registry holds the tables of every registered shape.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]Table)}
}

// Register adds or replaces a table.
func (r *Registry) Register(t Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.Shape] = t
}

func (r *Registry) Lookup(shape string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[shape]
	return t, ok
}

// Shapes returns the registered shape names sorted.
func (r *Registry) Shapes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default is the process-wide registry the dto packages register into.
func Default() *Registry {
	return defaultRegistry
}

func Register(t Table) {
	defaultRegistry.Register(t)
}
