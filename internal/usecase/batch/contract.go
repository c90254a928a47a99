package batch

import (
	"context"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
)

// Indexer dispatches single raw values.
type Indexer interface {
	IndexField(ctx context.Context, doc posting.DocID, name, text string) error
	Validate(ctx context.Context, name, text string) error
}
