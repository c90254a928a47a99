package resolver

import (
	"context"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// ParseFunc converts raw text into a typed value.
type ParseFunc[T any] func(text string) (T, error)

// InsertOp stores a typed value for a document in a field index.
type InsertOp[T any] func(ctx context.Context, idx engine.Index[T], value T, doc posting.DocID) error

// QueryOp reads the postings matching a typed value from a field index.
type QueryOp[T any] func(ctx context.Context, idx engine.Index[T], value T) ([]posting.Posting, error)

// Ops is the operation bundle registered for one type tag.
type Ops[T any] struct {
	// Resolver names the parse rules. Two registrations of a tag are
	// identical when they share the Go type and this name. Defaults to the tag.
	Resolver string
	// Parse is required.
	Parse ParseFunc[T]
	// Engine creates the per-field indexes. Required.
	Engine engine.Engine[T]
	// Insert defaults to the index's own Insert.
	Insert InsertOp[T]
	// Query defaults to the index's own Query.
	Query QueryOp[T]
}

func defaultInsert[T any](ctx context.Context, idx engine.Index[T], v T, doc posting.DocID) error {
	return idx.Insert(ctx, v, doc)
}

func defaultQuery[T any](ctx context.Context, idx engine.Index[T], v T) ([]posting.Posting, error) {
	return idx.Query(ctx, v)
}
