// Package memory provides in-process index engines backed by roaring bitmaps.
package memory

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Engine indexes exact values: one bitmap of documents per distinct value.
type Engine[T comparable] struct{}

// New creates an exact-value engine.
func New[T comparable]() *Engine[T] { return &Engine[T]{} }

// Create implements engine.Engine.
func (*Engine[T]) Create(_ context.Context, _ engine.Target) (engine.Index[T], error) {
	return &valueIndex[T]{ords: newOrdinals(), values: make(map[T]*roaring.Bitmap)}, nil
}

type valueIndex[T comparable] struct {
	mu     sync.RWMutex
	ords   ordinals
	values map[T]*roaring.Bitmap
}

func (i *valueIndex[T]) Insert(_ context.Context, v T, doc posting.DocID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	bm, ok := i.values[v]
	if !ok {
		bm = roaring.New()
		i.values[v] = bm
	}
	bm.Add(i.ords.assign(doc))
	return nil
}

func (i *valueIndex[T]) Query(_ context.Context, v T) ([]posting.Posting, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ords.postings(i.values[v], nil), nil
}

// Capabilities implements engine.Describer. A bitmap holds each document once.
func (*valueIndex[T]) Capabilities() engine.Capabilities {
	return engine.Capabilities{Unique: true, Concurrent: true}
}
