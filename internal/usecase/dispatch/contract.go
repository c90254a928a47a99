package dispatch

import (
	"context"

	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// Types resolves raw text through the lane registered for a tag.
type Types interface {
	Has(tag field.Tag) bool
	Resolve(fieldName string, tag field.Tag, text string) (resolver.Value, error)
	Describe() []resolver.Info
}

// Schema is the field definition registry.
type Schema interface {
	Declare(def field.Definition) (created bool, err error)
	Lookup(name string) (field.Tag, error)
	List() []field.Definition
}

// Container owns one index handle per declared field.
type Container interface {
	ManageIndex(ctx context.Context, name string, tag field.Tag) error
	IndexField(ctx context.Context, name string, doc posting.DocID, value resolver.Value) error
	QueryField(ctx context.Context, name string, value resolver.Value) ([]posting.Posting, error)
	Capabilities(name string) (engine.Capabilities, error)
}
