// Package index holds the index container: one engine handle per declared
// field, created once and never replaced.
package index

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// types is the consumer interface for the type resolver registry.
type types interface {
	Has(tag field.Tag) bool
	Create(ctx context.Context, t engine.Target) (resolver.Handle, error)
}

// declarer is the consumer interface for the field definition registry.
type declarer interface {
	Declare(def field.Definition) (bool, error)
}

type entry struct {
	tag    field.Tag
	handle resolver.Handle
	// mu serializes access for engines that are not Concurrent.
	mu sync.RWMutex
}

// Container implements usecase/dispatch.Container.
type Container struct {
	types  types
	schema declarer

	// regMu serializes ManageIndex so the declare/create pair is race-free.
	regMu sync.Mutex

	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty container.
func New(t types, s declarer) *Container {
	return &Container{types: t, schema: s, entries: make(map[string]*entry)}
}

// ManageIndex ensures name is declared with tag and has exactly one handle.
func (c *Container) ManageIndex(ctx context.Context, name string, tag field.Tag) error {
	if !c.types.Has(tag) {
		return &domain.UnknownTypeError{Tag: tag.String()}
	}
	def, err := field.New(name, tag)
	if err != nil {
		return err
	}

	c.regMu.Lock()
	defer c.regMu.Unlock()

	if _, err := c.schema.Declare(def); err != nil {
		return err
	}
	if _, ok := c.entry(name); ok {
		return nil
	}

	h, err := c.types.Create(ctx, engine.Target{Field: name, Tag: tag})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[name] = &entry{tag: tag, handle: h}
	c.mu.Unlock()
	return nil
}

// IndexField inserts value for doc into the index of name.
func (c *Container) IndexField(ctx context.Context, name string, doc posting.DocID, value resolver.Value) error {
	e, ok := c.entry(name)
	if !ok {
		return &domain.UnknownFieldError{Name: name}
	}
	if !e.handle.Capabilities().Concurrent {
		e.mu.Lock()
		defer e.mu.Unlock()
	}
	return engineError("insert", name, value.Insert(ctx, e.handle, doc))
}

// QueryField returns the engine's postings for value in the index of name, unmodified.
func (c *Container) QueryField(ctx context.Context, name string, value resolver.Value) ([]posting.Posting, error) {
	e, ok := c.entry(name)
	if !ok {
		return nil, &domain.UnknownFieldError{Name: name}
	}
	if !e.handle.Capabilities().Concurrent {
		e.mu.RLock()
		defer e.mu.RUnlock()
	}
	ps, err := value.Query(ctx, e.handle)
	if err != nil {
		return nil, engineError("query", name, err)
	}
	return ps, nil
}

// Capabilities returns what the engine declared for the index of name.
func (c *Container) Capabilities(name string) (engine.Capabilities, error) {
	e, ok := c.entry(name)
	if !ok {
		return engine.Capabilities{}, &domain.UnknownFieldError{Name: name}
	}
	return e.handle.Capabilities(), nil
}

// Fields returns the names of fields with a handle, sorted.
func (c *Container) Fields() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of handles.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// engineError wraps engine failures; routing errors raised before the engine
// call pass through as they are.
func engineError(op, name string, err error) error {
	if err == nil || errors.Is(err, domain.ErrTagMismatch) {
		return err
	}
	return domain.NewEngineError(op, name, err)
}

func (c *Container) entry(name string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}
