// Package redis provides index engines that keep posting lists in Redis or
// Valkey sorted sets. Each term of a field maps to one sorted set of document
// ids scored by a per-field insertion sequence, so queries return documents
// in first-indexed order.
package redis

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/fieldex/internal/db"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Store is the sorted-set storage an Engine needs. db/redis.Store implements it.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	ZAddNX(ctx context.Context, items []db.ScoredMember) error
	ZRangeAll(ctx context.Context, keys []string) ([][]string, error)
}

// Engine stores values of type T as one or more string terms.
type Engine[T any] struct {
	store  Store
	prefix string
	terms  func(T) []string
	unique bool
	match  engine.Match
}

// New creates an engine for scalar values; encode must be injective so
// distinct values never share a posting list.
func New[T any](s Store, prefix string, encode func(T) string) *Engine[T] {
	return &Engine[T]{
		store:  s,
		prefix: prefix,
		terms:  func(v T) []string { return []string{encode(v)} },
		unique: true,
	}
}

// NewTerms creates an engine for token lists. With engine.MatchAny a query
// returns the postings of each token in turn, so a document matching two
// tokens appears twice. With engine.MatchAll it returns the documents holding
// every token, in the order of the first token's list.
func NewTerms(s Store, prefix string, m engine.Match) *Engine[[]string] {
	return &Engine[[]string]{
		store:  s,
		prefix: prefix,
		terms:  func(v []string) []string { return v },
		unique: m == engine.MatchAll,
		match:  m,
	}
}

// Create implements engine.Engine. No server state is created until the
// first insert.
func (e *Engine[T]) Create(_ context.Context, t engine.Target) (engine.Index[T], error) {
	if t.Field == "" {
		return nil, fmt.Errorf("field name is required")
	}
	base := e.prefix + t.Field
	return &index[T]{engine: e, seqKey: base + ":seq", valuePrefix: base + ":v:"}, nil
}

type index[T any] struct {
	engine      *Engine[T]
	seqKey      string
	valuePrefix string
}

func (i *index[T]) Insert(ctx context.Context, v T, doc posting.DocID) error {
	terms := dedupe(i.engine.terms(v))
	if len(terms) == 0 {
		return nil
	}
	seq, err := i.engine.store.Incr(ctx, i.seqKey)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	items := make([]db.ScoredMember, len(terms))
	for n, term := range terms {
		items[n] = db.ScoredMember{Key: i.valuePrefix + term, Score: float64(seq), Member: string(doc)}
	}
	if err := i.engine.store.ZAddNX(ctx, items); err != nil {
		return fmt.Errorf("add postings: %w", err)
	}
	return nil
}

func (i *index[T]) Query(ctx context.Context, v T) ([]posting.Posting, error) {
	terms := i.engine.terms(v)
	if i.engine.match == engine.MatchAll {
		terms = dedupe(terms)
	}
	if len(terms) == 0 {
		return []posting.Posting{}, nil
	}
	keys := make([]string, len(terms))
	for n, term := range terms {
		keys[n] = i.valuePrefix + term
	}
	lists, err := i.engine.store.ZRangeAll(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read postings: %w", err)
	}
	if i.engine.match == engine.MatchAll {
		return intersect(lists), nil
	}

	out := []posting.Posting{}
	for _, members := range lists {
		for _, m := range members {
			out = append(out, posting.New(posting.DocID(m)))
		}
	}
	return out, nil
}

// Capabilities implements engine.Describer. The server serializes commands,
// so the container does not need to lock.
func (i *index[T]) Capabilities() engine.Capabilities {
	return engine.Capabilities{Unique: i.engine.unique, Concurrent: true}
}

// intersect keeps the members of lists[0] present in every other list.
func intersect(lists [][]string) []posting.Posting {
	out := []posting.Posting{}
	if len(lists) == 0 {
		return out
	}
	rest := make([]map[string]struct{}, 0, len(lists)-1)
	for _, members := range lists[1:] {
		if len(members) == 0 {
			return out
		}
		set := make(map[string]struct{}, len(members))
		for _, m := range members {
			set[m] = struct{}{}
		}
		rest = append(rest, set)
	}
	for _, m := range lists[0] {
		if slices.ContainsFunc(rest, func(set map[string]struct{}) bool {
			_, ok := set[m]
			return !ok
		}) {
			continue
		}
		out = append(out, posting.New(posting.DocID(m)))
	}
	return out
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := slices.DeleteFunc(slices.Clone(terms), func(t string) bool {
		if _, ok := seen[t]; ok {
			return true
		}
		seen[t] = struct{}{}
		return false
	})
	return out
}
