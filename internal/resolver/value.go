package resolver

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Handle is one field's index, created by the lane of the field's tag.
// The zero Handle is invalid.
type Handle struct {
	tag   field.Tag
	owner lane
	slot  int
	caps  engine.Capabilities
}

// Tag returns the tag whose lane created the handle.
func (h Handle) Tag() field.Tag { return h.tag }

// Capabilities returns what the underlying index declared at creation.
func (h Handle) Capabilities() engine.Capabilities { return h.caps }

// Valid reports whether h was produced by a registry.
func (h Handle) Valid() bool { return h.owner != nil }

// Value is a resolved, typed value. The concrete type stays inside the lane
// that produced it; Insert and Query are bound to that lane.
type Value struct {
	tag    field.Tag
	text   string
	owner  lane
	insert func(ctx context.Context, h Handle, doc posting.DocID) error
	query  func(ctx context.Context, h Handle) ([]posting.Posting, error)
}

// Tag returns the tag the value was resolved under.
func (v Value) Tag() field.Tag { return v.tag }

// Text returns the raw text the value was resolved from.
func (v Value) Text() string { return v.text }

// Insert stores the value for doc in the index behind h.
func (v Value) Insert(ctx context.Context, h Handle, doc posting.DocID) error {
	if err := v.check(h); err != nil {
		return err
	}
	return v.insert(ctx, h, doc)
}

// Query returns the postings matching the value in the index behind h.
func (v Value) Query(ctx context.Context, h Handle) ([]posting.Posting, error) {
	if err := v.check(h); err != nil {
		return nil, err
	}
	return v.query(ctx, h)
}

func (v Value) check(h Handle) error {
	if v.owner == nil || !h.Valid() {
		return fmt.Errorf("%w: unresolved value or handle", domain.ErrTagMismatch)
	}
	if v.tag != h.tag || v.owner != h.owner {
		return fmt.Errorf("%w: value of %q routed to handle of %q", domain.ErrTagMismatch, v.tag, h.tag)
	}
	return nil
}
