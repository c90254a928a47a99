// Package dispatch is the typed dispatcher: the only place raw text meets a
// field's type. Every operation runs lookup, then resolve, then the engine
// call, and stops at the first failure.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/metrics"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// Operation names used in metrics and logs.
const (
	OpAddField   = "add_field"
	OpIndexField = "index_field"
	OpQueryField = "query_field"
	OpValidate   = "validate"
)

// Service dispatches raw field values to typed per-field indexes.
type Service struct {
	types     Types
	schema    Schema
	container Container
	dedup     Dedup
	logger    *zap.Logger
}

// New creates a dispatcher.
func New(types Types, schema Schema, container Container) *Service {
	return &Service{
		types:     types,
		schema:    schema,
		container: container,
		dedup:     DedupAuto,
		logger:    zap.NewNop(),
	}
}

// WithDedup sets the query result dedup policy.
func (s *Service) WithDedup(d Dedup) *Service {
	s.dedup = d
	return s
}

// WithLogger sets the logger. Nil keeps the current one.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// AddField declares name with tag and creates its index. Re-adding the same
// pair is a no-op; an unknown tag fails before anything is declared.
func (s *Service) AddField(ctx context.Context, name string, tag field.Tag) error {
	_, err := s.DeclareField(ctx, name, tag)
	return err
}

// DeclareField is AddField that also reports whether name was newly declared.
func (s *Service) DeclareField(ctx context.Context, name string, tag field.Tag) (created bool, err error) {
	defer s.observe(OpAddField, time.Now(), &err, zap.String("field", name), zap.String("type", tag.String()))

	def, err := field.New(name, tag)
	if err != nil {
		return false, err
	}
	if !s.types.Has(tag) {
		return false, &domain.UnknownTypeError{Tag: tag.String()}
	}
	created, err = s.schema.Declare(def)
	if err != nil {
		return false, err
	}
	if created {
		metrics.FieldsDeclared.Inc()
	}
	if err := s.container.ManageIndex(ctx, name, tag); err != nil {
		return false, fmt.Errorf("manage index %q: %w", name, err)
	}

	if created {
		s.logger.Info("Field declared", zap.String("field", name), zap.String("type", tag.String()))
	}
	return created, nil
}

// IndexField resolves text under the type of name and inserts it for doc.
func (s *Service) IndexField(ctx context.Context, doc posting.DocID, name, text string) (err error) {
	defer s.observe(OpIndexField, time.Now(), &err, zap.String("field", name), zap.String("doc_id", string(doc)))

	if doc == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidDocument)
	}
	v, err := s.resolve(name, text)
	if err != nil {
		return err
	}
	return s.container.IndexField(ctx, name, doc, v)
}

// QueryField resolves text under the type of name and returns matching
// document ids in engine order. No match is an empty slice, not an error.
func (s *Service) QueryField(ctx context.Context, name, text string) (_ []posting.DocID, err error) {
	defer s.observe(OpQueryField, time.Now(), &err, zap.String("field", name))

	v, err := s.resolve(name, text)
	if err != nil {
		return nil, err
	}
	ps, err := s.container.QueryField(ctx, name, v)
	if err != nil {
		return nil, err
	}
	caps, err := s.container.Capabilities(name)
	if err != nil {
		return nil, err
	}
	return s.dedup.project(ps, caps), nil
}

// Validate runs lookup and resolution without touching the engine.
func (s *Service) Validate(_ context.Context, name, text string) (err error) {
	defer s.observe(OpValidate, time.Now(), &err, zap.String("field", name))

	_, err = s.resolve(name, text)
	return err
}

// Fields returns the declared fields in declaration order.
func (s *Service) Fields() []field.Definition {
	return s.schema.List()
}

// Types describes the registered type tags.
func (s *Service) Types() []resolver.Info {
	return s.types.Describe()
}

func (s *Service) resolve(name, text string) (resolver.Value, error) {
	tag, err := s.schema.Lookup(name)
	if err != nil {
		return resolver.Value{}, err
	}
	return s.types.Resolve(name, tag, text)
}

func (s *Service) observe(op string, start time.Time, errp *error, fields ...zap.Field) {
	err := *errp
	metrics.DispatchOperationsTotal.WithLabelValues(op, metrics.Status(err)).Inc()
	metrics.DispatchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Debug("Dispatch failed", append(fields, zap.String("op", op), zap.Error(err))...)
	}
}
