// Package enginetest provides engine doubles for tests.
package enginetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Counter counts calls crossing the engine boundary.
type Counter struct {
	creates atomic.Int64
	inserts atomic.Int64
	queries atomic.Int64
}

// Creates returns the number of Create calls.
func (c *Counter) Creates() int64 { return c.creates.Load() }

// Inserts returns the number of Insert calls.
func (c *Counter) Inserts() int64 { return c.inserts.Load() }

// Queries returns the number of Query calls.
func (c *Counter) Queries() int64 { return c.queries.Load() }

// Total returns the number of calls of any kind.
func (c *Counter) Total() int64 { return c.Creates() + c.Inserts() + c.Queries() }

// Engine is an in-memory engine over comparable values that counts every call.
// Postings are returned in insertion order; the same (value, doc) pair inserted
// twice yields two postings, so Unique is not declared.
type Engine[T comparable] struct {
	*Counter

	mu        sync.Mutex
	createErr error
	insertErr error
	queryErr  error
}

// New creates a counting engine. Pass a shared Counter to aggregate calls
// across engines of different value types; nil allocates a fresh one.
func New[T comparable](c *Counter) *Engine[T] {
	if c == nil {
		c = &Counter{}
	}
	return &Engine[T]{Counter: c}
}

// FailCreate makes subsequent Create calls return err.
func (e *Engine[T]) FailCreate(err error) { e.mu.Lock(); e.createErr = err; e.mu.Unlock() }

// FailInsert makes subsequent Insert calls return err.
func (e *Engine[T]) FailInsert(err error) { e.mu.Lock(); e.insertErr = err; e.mu.Unlock() }

// FailQuery makes subsequent Query calls return err.
func (e *Engine[T]) FailQuery(err error) { e.mu.Lock(); e.queryErr = err; e.mu.Unlock() }

// Create implements engine.Engine.
func (e *Engine[T]) Create(_ context.Context, _ engine.Target) (engine.Index[T], error) {
	e.creates.Add(1)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.createErr != nil {
		return nil, e.createErr
	}
	return &index[T]{owner: e, postings: make(map[T][]posting.Posting)}, nil
}

type index[T comparable] struct {
	owner    *Engine[T]
	mu       sync.Mutex
	postings map[T][]posting.Posting
}

func (i *index[T]) Insert(_ context.Context, v T, doc posting.DocID) error {
	i.owner.inserts.Add(1)
	i.owner.mu.Lock()
	err := i.owner.insertErr
	i.owner.mu.Unlock()
	if err != nil {
		return err
	}
	i.mu.Lock()
	i.postings[v] = append(i.postings[v], posting.New(doc))
	i.mu.Unlock()
	return nil
}

func (i *index[T]) Query(_ context.Context, v T) ([]posting.Posting, error) {
	i.owner.queries.Add(1)
	i.owner.mu.Lock()
	err := i.owner.queryErr
	i.owner.mu.Unlock()
	if err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]posting.Posting, len(i.postings[v]))
	copy(out, i.postings[v])
	return out, nil
}
