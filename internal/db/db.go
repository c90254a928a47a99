// Package db defines the storage facade used by remote index engines.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ScoredMember is a single sorted-set entry.
type ScoredMember struct {
	Key    string
	Score  float64
	Member string
}

// SortedSetStore provides the sorted-set operations posting lists are built on.
type SortedSetStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	// ZAddNX adds members without touching existing ones, in one round-trip.
	ZAddNX(ctx context.Context, items []ScoredMember) error
	// ZRangeAll returns every member of each key in score order, one slice per key.
	ZRangeAll(ctx context.Context, keys []string) ([][]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}
