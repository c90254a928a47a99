package memory

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Match selects how a multi-term query combines its terms.
type Match = engine.Match

// Match modes.
const (
	MatchAny = engine.MatchAny
	MatchAll = engine.MatchAll
)

// TermsEngine indexes token lists: every term gets its own bitmap.
type TermsEngine struct {
	match Match
}

// NewTerms creates a term engine with the given match mode.
func NewTerms(m Match) *TermsEngine { return &TermsEngine{match: m} }

// Create implements engine.Engine.
func (e *TermsEngine) Create(_ context.Context, _ engine.Target) (engine.Index[[]string], error) {
	return &termIndex{
		match: e.match,
		ords:  newOrdinals(),
		terms: make(map[string]*roaring.Bitmap),
		freq:  make(map[string]map[uint32]int),
	}, nil
}

type termIndex struct {
	match Match

	mu    sync.RWMutex
	ords  ordinals
	terms map[string]*roaring.Bitmap
	freq  map[string]map[uint32]int
}

func (i *termIndex) Insert(_ context.Context, tokens []string, doc posting.DocID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	ord := i.ords.assign(doc)
	for _, tok := range tokens {
		bm, ok := i.terms[tok]
		if !ok {
			bm = roaring.New()
			i.terms[tok] = bm
			i.freq[tok] = make(map[uint32]int)
		}
		bm.Add(ord)
		i.freq[tok][ord]++
	}
	return nil
}

func (i *termIndex) Query(_ context.Context, tokens []string) ([]posting.Posting, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.match == MatchAll {
		return i.queryAll(tokens), nil
	}

	out := []posting.Posting{}
	for _, tok := range tokens {
		freq := i.freq[tok]
		out = append(out, i.ords.postings(i.terms[tok], func(ord uint32) int { return freq[ord] })...)
	}
	return out, nil
}

func (i *termIndex) queryAll(tokens []string) []posting.Posting {
	if len(tokens) == 0 {
		return []posting.Posting{}
	}
	bms := make([]*roaring.Bitmap, 0, len(tokens))
	for _, tok := range tokens {
		bm, ok := i.terms[tok]
		if !ok {
			return []posting.Posting{}
		}
		bms = append(bms, bm)
	}
	hits := roaring.FastAnd(bms...)
	return i.ords.postings(hits, func(ord uint32) int {
		n := 0
		for _, tok := range tokens {
			n += i.freq[tok][ord]
		}
		return n
	})
}

// Capabilities implements engine.Describer. MatchAny repeats documents
// across terms, so only MatchAll is unique.
func (i *termIndex) Capabilities() engine.Capabilities {
	return engine.Capabilities{Unique: i.match == MatchAll, Concurrent: true}
}
