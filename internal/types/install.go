// Package types supplies the built-in value types: their tags, parsers and
// the engines that index them. The dispatch core knows none of these; they
// are registered like any user type.
package types

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/engine"
	"github.com/kailas-cloud/fieldex/internal/engine/memory"
	engredis "github.com/kailas-cloud/fieldex/internal/engine/redis"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// Built-in tags.
const (
	Integer  field.Tag = "integer"
	Unsigned field.Tag = "unsigned"
	Float    field.Tag = "float"
	Bool     field.Tag = "bool"
	Date     field.Tag = "date"
	Keyword  field.Tag = "keyword"
	Text     field.Tag = "text"
	Fulltext field.Tag = "fulltext"
)

// Backend supplies one engine per built-in Go type. Nil engines leave their
// tags unregistered.
type Backend struct {
	Integer  engine.Engine[int64]
	Unsigned engine.Engine[uint64]
	Float    engine.Engine[float64]
	Bool     engine.Engine[bool]
	Date     engine.Engine[time.Time]
	Keyword  engine.Engine[string]
	Text     engine.Engine[[]string]
	Fulltext engine.Engine[string]
}

// MemoryBackend indexes every type in process. Text fields combine terms
// with match.
func MemoryBackend(match memory.Match) Backend {
	return Backend{
		Integer:  memory.New[int64](),
		Unsigned: memory.New[uint64](),
		Float:    memory.New[float64](),
		Bool:     memory.New[bool](),
		Date:     memory.New[time.Time](),
		Keyword:  memory.New[string](),
		Text:     memory.NewTerms(match),
	}
}

// SortedSetStore is what RedisBackend needs from a Redis or Valkey store.
type SortedSetStore = engredis.Store

// RedisBackend keeps every posting list in Redis or Valkey under prefix.
// Text fields combine terms with match.
func RedisBackend(s SortedSetStore, prefix string, match engine.Match) Backend {
	return Backend{
		Integer:  engredis.New(s, prefix, EncodeInteger),
		Unsigned: engredis.New(s, prefix, EncodeUnsigned),
		Float:    engredis.New(s, prefix, EncodeFloat),
		Bool:     engredis.New(s, prefix, EncodeBool),
		Date:     engredis.New(s, prefix, EncodeDate),
		Keyword:  engredis.New(s, prefix, EncodeKeyword),
		Text:     engredis.NewTerms(s, prefix, match),
	}
}

// Install registers every built-in tag that b has an engine for. Text
// fields are analyzed with a.
func Install(r *resolver.Registry, b Backend, a Analyzer) error {
	steps := []func() error{
		func() error { return register(r, Integer, ParseInteger, b.Integer) },
		func() error { return register(r, Unsigned, ParseUnsigned, b.Unsigned) },
		func() error { return register(r, Float, ParseFloat, b.Float) },
		func() error { return register(r, Bool, ParseBool, b.Bool) },
		func() error { return register(r, Date, ParseDate, b.Date) },
		func() error { return register(r, Keyword, ParseKeyword, b.Keyword) },
		func() error { return register(r, Text, a.Parse, b.Text) },
		func() error { return register(r, Fulltext, ParseFulltext, b.Fulltext) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func register[T any](r *resolver.Registry, tag field.Tag, parse resolver.ParseFunc[T], e engine.Engine[T]) error {
	if e == nil {
		return nil
	}
	if err := resolver.Register(r, tag, resolver.Ops[T]{Parse: parse, Engine: e}); err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}
	return nil
}
