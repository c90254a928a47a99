// Package schema holds the field definition registry: an append-only
// mapping from field name to type tag.
package schema

import (
	"slices"
	"sync"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
)

// Registry implements usecase/dispatch.Schema.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]field.Definition
	order  []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]field.Definition)}
}

// Declare inserts def if its name is free. Redeclaring with the same tag
// reports created=false; a different tag is a DuplicateFieldError.
func (r *Registry) Declare(def field.Definition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[def.Name()]; ok {
		if existing.Tag() == def.Tag() {
			return false, nil
		}
		return false, &domain.DuplicateFieldError{
			Name:      def.Name(),
			Existing:  existing.Tag().String(),
			Requested: def.Tag().String(),
		}
	}
	r.byName[def.Name()] = def
	r.order = append(r.order, def.Name())
	return true, nil
}

// Lookup returns the tag declared for name.
func (r *Registry) Lookup(name string) (field.Tag, error) {
	def, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return def.Tag(), nil
}

// Get returns the definition declared for name.
func (r *Registry) Get(name string) (field.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[name]
	if !ok {
		return field.Definition{}, &domain.UnknownFieldError{Name: name}
	}
	return def, nil
}

// List returns all definitions in declaration order.
func (r *Registry) List() []field.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]field.Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the declared field names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Clone(r.order)
	slices.Sort(names)
	return names
}

// Len returns the number of declared fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
