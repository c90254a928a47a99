package fieldex

import (
	"context"
	"fmt"
)

// TypedIndex is a generic, schema-first view of a Client. Fields are
// inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index over client. T must be a struct with one
// `fieldex:",id"` field. Schema is parsed once and cached.
func NewIndex[T any](client *Client) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &TypedIndex[T]{client: client, meta: meta}, nil
}

// Fields lists the fields T declares, in struct order.
func (idx *TypedIndex[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(idx.meta.fields))
	for i, f := range idx.meta.fields {
		out[i] = FieldInfo{Name: f.name, Type: f.tag}
	}
	return out
}

// Ensure declares every field of T (idempotent).
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	for _, f := range idx.meta.fields {
		if err := idx.client.AddField(ctx, f.name, f.tag); err != nil {
			return fmt.Errorf("ensure %q: %w", f.name, err)
		}
	}
	return nil
}

// Index indexes every tagged field of item.
func (idx *TypedIndex[T]) Index(ctx context.Context, item T) ([]ValueResult, error) {
	id, values, err := idx.meta.toValues(item)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return idx.client.IndexDocument(ctx, id, values)
}

// ItemResult is the outcome of one item of IndexAll.
type ItemResult struct {
	ID     DocID
	Values []ValueResult
	Err    error
}

// Failed reports whether the item or any of its values failed.
func (r ItemResult) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, v := range r.Values {
		if v.Err != nil {
			return true
		}
	}
	return false
}

// IndexAll indexes items in order. An invalid item does not stop the rest.
func (idx *TypedIndex[T]) IndexAll(ctx context.Context, items []T) []ItemResult {
	out := make([]ItemResult, len(items))
	for i, item := range items {
		id, values, err := idx.meta.toValues(item)
		if err != nil {
			out[i] = ItemResult{Err: err}
			continue
		}
		res, err := idx.client.IndexDocument(ctx, id, values)
		out[i] = ItemResult{ID: id, Values: res, Err: err}
	}
	return out
}

// Query returns the ids of items whose field matches text.
func (idx *TypedIndex[T]) Query(ctx context.Context, field, text string) ([]DocID, error) {
	return idx.client.QueryField(ctx, field, text)
}
