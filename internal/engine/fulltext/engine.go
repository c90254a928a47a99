// Package fulltext provides a full-text index engine on in-memory bleve indexes.
// Values are raw text; bleve's analyzer tokenizes them and queries rank
// documents by relevance.
package fulltext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

const textField = "text"

// DefaultMaxHits caps the number of postings one query returns.
const DefaultMaxHits = 1000

type textDoc struct {
	Text string `json:"text"`
}

// Engine creates one in-memory bleve index per field.
type Engine struct {
	analyzer string
	maxHits  int

	mu      sync.Mutex
	indexes []bleve.Index
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnalyzer sets the bleve analyzer name used for the text field.
func WithAnalyzer(name string) Option {
	return func(e *Engine) { e.analyzer = name }
}

// WithMaxHits caps query results.
func WithMaxHits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxHits = n
		}
	}
}

// New creates a bleve engine.
func New(opts ...Option) *Engine {
	e := &Engine{analyzer: standard.Name, maxHits: DefaultMaxHits}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Create implements engine.Engine.
func (e *Engine) Create(_ context.Context, _ engine.Target) (engine.Index[string], error) {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = e.analyzer

	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	e.mu.Lock()
	e.indexes = append(e.indexes, idx)
	e.mu.Unlock()

	return &index{idx: idx, maxHits: e.maxHits, texts: make(map[posting.DocID]string)}, nil
}

// Close releases every index the engine created.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var errs []error
	for _, idx := range e.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.indexes = nil
	return errors.Join(errs...)
}

type index struct {
	idx     bleve.Index
	maxHits int
	// texts accumulates every value indexed for a document; bleve replaces
	// documents on re-index, so the full text is written each time.
	texts map[posting.DocID]string
}

func (i *index) Insert(_ context.Context, text string, doc posting.DocID) error {
	full := text
	if prev, ok := i.texts[doc]; ok {
		full = prev + "\n" + text
	}
	if err := i.idx.Index(string(doc), textDoc{Text: full}); err != nil {
		return fmt.Errorf("index %s: %w", doc, err)
	}
	i.texts[doc] = full
	return nil
}

func (i *index) Query(ctx context.Context, text string) ([]posting.Posting, error) {
	if strings.TrimSpace(text) == "" {
		return []posting.Posting{}, nil
	}

	q := bleve.NewMatchQuery(text)
	q.SetField(textField)

	req := bleve.NewSearchRequest(q)
	req.Size = i.maxHits

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]posting.Posting, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, posting.New(posting.DocID(hit.ID)))
	}
	return out, nil
}

// Capabilities implements engine.Describer. Hits are unique per document;
// the accumulated text map needs the container's per-field lock.
func (i *index) Capabilities() engine.Capabilities {
	return engine.Capabilities{Unique: true}
}
