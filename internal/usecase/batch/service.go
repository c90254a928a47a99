// Package batch indexes every raw value of a document through the
// dispatcher and reports one result per value.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fieldex/internal/domain"
	dombatch "github.com/kailas-cloud/fieldex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/fieldex/internal/domain/document"
	"github.com/kailas-cloud/fieldex/internal/metrics"
)

// Defaults for a new Service.
const (
	DefaultParallelism = 8
	DefaultMaxValues   = 256
)

// Service indexes documents value by value. Values are independent: without
// strict mode a failed value does not stop the others.
type Service struct {
	indexer     Indexer
	parallelism int
	maxValues   int
	strict      bool
	logger      *zap.Logger
}

// New creates a batch service.
func New(indexer Indexer) *Service {
	return &Service{
		indexer:     indexer,
		parallelism: DefaultParallelism,
		maxValues:   DefaultMaxValues,
		logger:      zap.NewNop(),
	}
}

// WithParallelism bounds the number of values dispatched at once.
func (s *Service) WithParallelism(n int) *Service {
	if n > 0 {
		s.parallelism = n
	}
	return s
}

// WithMaxValues limits the number of values per document.
func (s *Service) WithMaxValues(n int) *Service {
	if n > 0 {
		s.maxValues = n
	}
	return s
}

// WithStrict makes a single lookup or parse failure abort the whole document
// before any value is indexed.
func (s *Service) WithStrict(strict bool) *Service {
	s.strict = strict
	return s
}

// WithLogger sets the logger. Nil keeps the current one.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// Strict reports whether strict mode is on.
func (s *Service) Strict() bool { return s.strict }

// Index dispatches every value of doc and returns results in value order.
func (s *Service) Index(ctx context.Context, doc domdoc.Document) []dombatch.Result {
	return s.index(ctx, doc, s.strict)
}

// IndexStrict is Index with strict mode forced on for this call.
func (s *Service) IndexStrict(ctx context.Context, doc domdoc.Document) []dombatch.Result {
	return s.index(ctx, doc, true)
}

func (s *Service) index(ctx context.Context, doc domdoc.Document, strict bool) []dombatch.Result {
	values := doc.Values()
	results := make([]dombatch.Result, len(values))

	if len(values) > s.maxValues {
		for i, v := range values {
			results[i] = dombatch.NewError(v.Field,
				fmt.Errorf("document has %d values, max %d: %w", len(values), s.maxValues, domain.ErrInvalidDocument))
		}
		s.record(results)
		return results
	}

	if strict && s.validate(ctx, values, results) {
		s.logger.Debug("Document rejected",
			zap.String("doc_id", string(doc.ID())),
			zap.Int("failed", dombatch.Failed(results)),
		)
		s.record(results)
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, v := range values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = dombatch.NewSkipped(v.Field, err)
				return nil
			}
			if err := s.indexer.IndexField(ctx, doc.ID(), v.Field, v.Text); err != nil {
				results[i] = dombatch.NewError(v.Field, err)
				return nil
			}
			results[i] = dombatch.NewOK(v.Field)
			return nil
		})
	}
	_ = g.Wait()

	if failed := dombatch.Failed(results); failed > 0 {
		s.logger.Debug("Document partially indexed",
			zap.String("doc_id", string(doc.ID())),
			zap.Int("values", len(values)),
			zap.Int("failed", failed),
		)
	}
	s.record(results)
	return results
}

// validate fills results and reports whether the document must be aborted.
func (s *Service) validate(ctx context.Context, values []domdoc.RawValue, results []dombatch.Result) bool {
	errs := make([]error, len(values))
	aborted := false
	for i, v := range values {
		if err := s.indexer.Validate(ctx, v.Field, v.Text); err != nil {
			errs[i] = err
			aborted = true
		}
	}
	if !aborted {
		return false
	}
	for i, v := range values {
		if errs[i] != nil {
			results[i] = dombatch.NewError(v.Field, errs[i])
			continue
		}
		results[i] = dombatch.NewSkipped(v.Field, domain.ErrBatchAborted)
	}
	return true
}

func (s *Service) record(results []dombatch.Result) {
	for _, r := range results {
		metrics.BatchValuesTotal.WithLabelValues(string(r.Status())).Inc()
	}
}
