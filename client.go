package fieldex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/fieldex/internal/db/redis"
	"github.com/kailas-cloud/fieldex/internal/domain/batch"
	"github.com/kailas-cloud/fieldex/internal/domain/document"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/engine/fulltext"
	"github.com/kailas-cloud/fieldex/internal/engine/memory"
	"github.com/kailas-cloud/fieldex/internal/metrics"
	indexrepo "github.com/kailas-cloud/fieldex/internal/repository/index"
	schemarepo "github.com/kailas-cloud/fieldex/internal/repository/schema"
	"github.com/kailas-cloud/fieldex/internal/resolver"
	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
	"github.com/kailas-cloud/fieldex/internal/types"
	batchuc "github.com/kailas-cloud/fieldex/internal/usecase/batch"
	dispatchuc "github.com/kailas-cloud/fieldex/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/fieldex/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the fieldex entry point. It owns the type registry, the field
// schema and one index per declared field. Safe for concurrent use.
type Client struct {
	store    *dbRedis.Store // nil with the memory backend
	fulltext *fulltext.Engine

	types     *resolver.Registry
	dispatch  *dispatchuc.Service
	batch     *batchuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
	obs       *observer
	keyPrefix string
}

// New creates a Client. With WithRedis the provided context bounds the
// initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	if cfg.metricsReg != nil {
		if err := metrics.RegisterDispatchMetricsWith(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("fieldex: %w", err)
		}
	}

	c := &Client{logger: cfg.logger, obs: obs, keyPrefix: cfg.keyPrefix}

	backend, err := c.backend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.fulltext {
		var ftOpts []fulltext.Option
		if cfg.bleveName != "" {
			ftOpts = append(ftOpts, fulltext.WithAnalyzer(cfg.bleveName))
		}
		c.fulltext = fulltext.New(ftOpts...)
		backend.Fulltext = c.fulltext
	}

	c.types = resolver.New(
		resolver.WithCache(cfg.cacheSize),
		resolver.WithCacheObserver(func(tag field.Tag, hit bool) {
			metrics.ResolveCacheTotal.WithLabelValues(tag.String(), metrics.CacheResult(hit)).Inc()
		}),
	)
	if cfg.builtins {
		if err := types.Install(c.types, backend, analyzer(cfg)); err != nil {
			c.Close()
			return nil, fmt.Errorf("fieldex: install types: %w", err)
		}
	}

	schema := schemarepo.New()
	container := indexrepo.New(c.types, schema)
	c.dispatch = dispatchuc.New(c.types, schema, container).
		WithDedup(cfg.dedup).
		WithLogger(cfg.logger)
	c.batch = batchuc.New(c.dispatch).
		WithParallelism(cfg.parallelism).
		WithMaxValues(cfg.maxValues).
		WithStrict(cfg.strict).
		WithLogger(cfg.logger)

	if c.store != nil {
		c.health = healthuc.New(c.store, c.types)
	} else {
		c.health = healthuc.New(nil, c.types)
	}
	return c, nil
}

func (c *Client) backend(ctx context.Context, cfg *clientConfig) (types.Backend, error) {
	match := memory.MatchAny
	if cfg.matchAll {
		match = memory.MatchAll
	}

	switch cfg.driver {
	case "memory":
		return types.MemoryBackend(match), nil
	case "redis":
		if len(cfg.addrs) == 0 {
			return types.Backend{}, errors.New("fieldex: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return types.Backend{}, fmt.Errorf("fieldex: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
			s.Close()
			return types.Backend{}, fmt.Errorf("fieldex: database not ready: %w", err)
		}
		c.store = s
		return types.RedisBackend(s, cfg.keyPrefix, match), nil
	default:
		return types.Backend{}, fmt.Errorf("fieldex: unknown driver %q", cfg.driver)
	}
}

func analyzer(cfg *clientConfig) types.Analyzer {
	var opts []types.AnalyzerOption
	if cfg.stopwords != nil {
		opts = append(opts, types.WithStopwords(cfg.stopwords))
	}
	if cfg.noLower {
		opts = append(opts, types.WithLowercase(false))
	}
	if cfg.splitWS {
		opts = append(opts, types.WithTokenizer(types.Whitespace))
	}
	if cfg.stem {
		opts = append(opts, types.WithStemmer(types.Porter))
	}
	return types.NewAnalyzer(opts...)
}

// Close releases the database connection and every full-text index.
func (c *Client) Close() error {
	if c.store != nil {
		c.store.Close()
	}
	if c.fulltext != nil {
		return c.fulltext.Close()
	}
	return nil
}

// Ping checks database connectivity. Always succeeds with the memory backend.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// AddField declares name with the type tag and creates its index.
// Re-adding the same pair is a no-op.
func (c *Client) AddField(ctx context.Context, name string, tag Tag) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_field", start, err) }()

	return c.dispatch.AddField(ctx, name, tag)
}

// DeclareField is AddField that reports whether the field is new.
func (c *Client) DeclareField(ctx context.Context, name string, tag Tag) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_field", start, err) }()

	return c.dispatch.DeclareField(ctx, name, tag)
}

// IndexField parses text with the field's type and indexes it for doc.
func (c *Client) IndexField(ctx context.Context, doc DocID, name, text string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_field", start, err) }()

	return c.dispatch.IndexField(ctx, doc, name, text)
}

// QueryField parses text with the field's type and returns the matching
// document ids.
func (c *Client) QueryField(ctx context.Context, name, text string) (_ []DocID, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query_field", start, err) }()

	return c.dispatch.QueryField(ctx, name, text)
}

// Validate reports whether text parses for the field without indexing it.
func (c *Client) Validate(ctx context.Context, name, text string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("validate", start, err) }()

	return c.dispatch.Validate(ctx, name, text)
}

// ValueResult is the outcome of one document value.
type ValueResult struct {
	Field  string
	Status string // "ok", "error" or "skipped"
	Err    error
}

// IndexDocument indexes every field of a document. A failing value does not
// stop the others unless the client is strict; see WithStrictBatch.
// Values are processed in field name order.
func (c *Client) IndexDocument(ctx context.Context, id DocID, values map[string]string) (_ []ValueResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_document", start, err) }()

	doc, err := document.FromMap(id, values)
	if err != nil {
		return nil, err
	}
	return toValueResults(c.batch.Index(ctx, doc)), nil
}

func toValueResults(results []batch.Result) []ValueResult {
	out := make([]ValueResult, len(results))
	for i, r := range results {
		out[i] = ValueResult{Field: r.Field(), Status: string(r.Status()), Err: r.Err()}
	}
	return out
}

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name string
	Type Tag
}

// Fields lists the declared fields in declaration order.
func (c *Client) Fields() []FieldInfo {
	defs := c.dispatch.Fields()
	out := make([]FieldInfo, len(defs))
	for i, d := range defs {
		out[i] = FieldInfo{Name: d.Name(), Type: d.Tag()}
	}
	return out
}

// TypeInfo describes a registered type.
type TypeInfo = resolver.Info

// Types lists the registered types ordered by tag.
func (c *Client) Types() []TypeInfo {
	return c.dispatch.Types()
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the database (if any) and the type registry.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

// KeyPrefix returns the Redis key prefix of the client's indexes.
func (c *Client) KeyPrefix() string { return c.keyPrefix }

// Handler serves the client over the fieldex HTTP API. Requests must carry
// one of apiKeys as a bearer token; none disables auth. Dispatch metrics are
// registered with the default prometheus registry served at /metrics.
func (c *Client) Handler(apiKeys ...string) http.Handler {
	metrics.RegisterDispatchMetrics()
	s := chitransport.NewServer(c.dispatch, c.batch, c.health, c.logger)
	return chitransport.NewRouter(s, apiKeys)
}
