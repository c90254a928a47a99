// Package resolver maps type tags to typed lanes. A lane parses raw text into
// its Go type and owns the engine indexes created for fields of that tag.
package resolver

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Info describes a registered tag.
type Info struct {
	Tag      field.Tag
	Resolver string
	GoType   string
}

// CacheObserver is notified of resolution cache lookups.
type CacheObserver func(tag field.Tag, hit bool)

type cacheKey struct {
	tag  field.Tag
	text string
}

// Registry is the type resolver registry. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	lanes map[field.Tag]lane

	cache    *lru.Cache[cacheKey, Value]
	observer CacheObserver
}

// Option configures a Registry.
type Option func(*Registry)

// WithCache enables an LRU cache of successful resolutions keyed by tag and text.
// Sizes below one leave the cache disabled.
func WithCache(size int) Option {
	return func(r *Registry) {
		if size <= 0 {
			return
		}
		c, err := lru.New[cacheKey, Value](size)
		if err != nil {
			return
		}
		r.cache = c
	}
}

// WithCacheObserver sets a callback for cache hits and misses.
func WithCacheObserver(o CacheObserver) Option {
	return func(r *Registry) { r.observer = o }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{lanes: make(map[field.Tag]lane)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register binds tag to ops. Registering the same tag again with the same Go
// type and resolver name is a no-op; anything else is a DuplicateTypeError.
func Register[T any](r *Registry, tag field.Tag, ops Ops[T]) error {
	if tag == "" {
		return fmt.Errorf("%w: tag is required", domain.ErrInvalidType)
	}
	if ops.Parse == nil {
		return fmt.Errorf("%w: %q: parse function is required", domain.ErrInvalidType, tag)
	}
	if ops.Engine == nil {
		return fmt.Errorf("%w: %q: engine is required", domain.ErrInvalidType, tag)
	}

	l := newLane(tag, ops)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.lanes[tag]; ok {
		if existing.sameAs(l) {
			return nil
		}
		return &domain.DuplicateTypeError{Tag: tag.String()}
	}
	r.lanes[tag] = l
	return nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag field.Tag) bool {
	_, ok := r.lane(tag)
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []field.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.lanes))
}

// Describe returns Info for every registered tag, sorted by tag.
func (r *Registry) Describe() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.lanes))
	for _, tag := range slices.Sorted(maps.Keys(r.lanes)) {
		out = append(out, r.lanes[tag].info())
	}
	return out
}

// Create makes a new index handle for t through the engine of t.Tag.
func (r *Registry) Create(ctx context.Context, t engine.Target) (Handle, error) {
	l, ok := r.lane(t.Tag)
	if !ok {
		return Handle{}, &domain.UnknownTypeError{Tag: t.Tag.String()}
	}
	h, err := l.create(ctx, t)
	if err != nil {
		return Handle{}, domain.NewEngineError("create", t.Field, err)
	}
	return h, nil
}

// Resolve parses text under tag. fieldName is only used for error reporting.
func (r *Registry) Resolve(fieldName string, tag field.Tag, text string) (Value, error) {
	l, ok := r.lane(tag)
	if !ok {
		return Value{}, &domain.UnknownTypeError{Tag: tag.String()}
	}

	if r.cache != nil {
		key := cacheKey{tag: tag, text: text}
		if v, hit := r.cache.Get(key); hit {
			r.observe(tag, true)
			return v, nil
		}
		r.observe(tag, false)
		v, err := r.parse(l, fieldName, tag, text)
		if err != nil {
			return Value{}, err
		}
		r.cache.Add(key, v)
		return v, nil
	}

	return r.parse(l, fieldName, tag, text)
}

func (r *Registry) parse(l lane, fieldName string, tag field.Tag, text string) (Value, error) {
	v, err := l.resolve(text)
	if err != nil {
		return Value{}, &domain.ParseError{Field: fieldName, Text: text, Tag: tag.String(), Err: err}
	}
	return v, nil
}

func (r *Registry) lane(tag field.Tag) (lane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lanes[tag]
	return l, ok
}

func (r *Registry) observe(tag field.Tag, hit bool) {
	if r.observer != nil {
		r.observer(tag, hit)
	}
}
