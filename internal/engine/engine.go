// Package engine defines the contract between the dispatch core and the
// index engines that store typed values. The core never sees engine
// internals; it creates one Index per field and calls Insert and Query.
package engine

import (
	"context"

	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
)

// Target identifies the field an index is created for.
type Target struct {
	Field string
	Tag   field.Tag
}

// Engine creates per-field indexes over values of type T.
type Engine[T any] interface {
	Create(ctx context.Context, t Target) (Index[T], error)
}

// Index is a single field's index over values of type T.
type Index[T any] interface {
	Insert(ctx context.Context, value T, doc posting.DocID) error
	Query(ctx context.Context, value T) ([]posting.Posting, error)
}

// Capabilities describes guarantees an index makes to its callers.
type Capabilities struct {
	// Unique means Query never returns two postings for the same document.
	Unique bool
	// Concurrent means Insert and Query are safe to call concurrently.
	Concurrent bool
}

// Match selects how a term engine combines the terms of one query.
type Match int

const (
	// MatchAny returns the postings of each query term in turn. A document
	// matching several terms appears once per term.
	MatchAny Match = iota
	// MatchAll returns each document containing every query term, once.
	MatchAll
)

// Describer is optionally implemented by an Index to declare its capabilities.
// Indexes that do not implement it get the zero Capabilities.
type Describer interface {
	Capabilities() Capabilities
}

// CapabilitiesOf returns the declared capabilities of idx.
func CapabilitiesOf[T any](idx Index[T]) Capabilities {
	if d, ok := idx.(Describer); ok {
		return d.Capabilities()
	}
	return Capabilities{}
}

// Func adapts a create function to the Engine interface.
type Func[T any] func(ctx context.Context, t Target) (Index[T], error)

// Create calls f.
func (f Func[T]) Create(ctx context.Context, t Target) (Index[T], error) { return f(ctx, t) }
