package health

import (
	"context"

	"github.com/kailas-cloud/fieldex/internal/domain/field"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// TypeLister reports the registered value types.
type TypeLister interface {
	Tags() []field.Tag
}
