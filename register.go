package fieldex

import (
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// TypeOps binds a Go type to a tag: Parse turns raw text into a T and Engine
// creates the per-field indexes. Insert and Query default to the index's own
// methods.
type TypeOps[T any] = resolver.Ops[T]

// RegisterType adds a value type to the client. Registering the same tag
// again with the same Go type and resolver name is a no-op; anything else
// fails with ErrDuplicateType.
func RegisterType[T any](c *Client, tag Tag, ops TypeOps[T]) error {
	return resolver.Register(c.types, tag, ops)
}
