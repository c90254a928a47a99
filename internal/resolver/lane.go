package resolver

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

var errNilIndex = errors.New("engine returned nil index")

// lane is the type-erased face of a registered tag. All typed work happens
// inside the generic implementation; callers only see Value and Handle.
type lane interface {
	info() Info
	sameAs(other lane) bool
	create(ctx context.Context, t engine.Target) (Handle, error)
	resolve(text string) (Value, error)
}

type typedLane[T any] struct {
	tag    field.Tag
	ops    Ops[T]
	goType string

	mu      sync.RWMutex
	indexes []engine.Index[T]
}

func newLane[T any](tag field.Tag, ops Ops[T]) *typedLane[T] {
	if ops.Resolver == "" {
		ops.Resolver = tag.String()
	}
	if ops.Insert == nil {
		ops.Insert = defaultInsert[T]
	}
	if ops.Query == nil {
		ops.Query = defaultQuery[T]
	}
	return &typedLane[T]{tag: tag, ops: ops, goType: reflect.TypeFor[T]().String()}
}

func (l *typedLane[T]) info() Info {
	return Info{Tag: l.tag, Resolver: l.ops.Resolver, GoType: l.goType}
}

func (l *typedLane[T]) sameAs(other lane) bool {
	o, ok := other.(*typedLane[T])
	return ok && o.ops.Resolver == l.ops.Resolver
}

func (l *typedLane[T]) create(ctx context.Context, t engine.Target) (Handle, error) {
	idx, err := l.ops.Engine.Create(ctx, t)
	if err != nil {
		return Handle{}, err
	}
	if idx == nil {
		return Handle{}, errNilIndex
	}

	l.mu.Lock()
	slot := len(l.indexes)
	l.indexes = append(l.indexes, idx)
	l.mu.Unlock()

	return Handle{tag: l.tag, owner: l, slot: slot, caps: engine.CapabilitiesOf(idx)}, nil
}

func (l *typedLane[T]) index(slot int) engine.Index[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexes[slot]
}

func (l *typedLane[T]) resolve(text string) (Value, error) {
	v, err := l.ops.Parse(text)
	if err != nil {
		return Value{}, err
	}
	return Value{
		tag:   l.tag,
		text:  text,
		owner: l,
		insert: func(ctx context.Context, h Handle, doc posting.DocID) error {
			return l.ops.Insert(ctx, l.index(h.slot), v, doc)
		},
		query: func(ctx context.Context, h Handle) ([]posting.Posting, error) {
			return l.ops.Query(ctx, l.index(h.slot), v)
		},
	}, nil
}
