package fieldex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver           string // "memory" or "redis"
	addrs            []string
	username         string
	password         string
	db               int
	keyPrefix        string
	readinessTimeout time.Duration

	builtins  bool
	matchAll  bool
	fulltext  bool
	bleveName string
	stopwords []string
	noLower   bool
	splitWS   bool
	stem      bool

	dedup       Dedup
	cacheSize   int
	parallelism int
	maxValues   int
	strict      bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		driver:           "memory",
		keyPrefix:        "fieldex:",
		readinessTimeout: defaultReadinessTimeout,
		builtins:         true,
		fulltext:         true,
		dedup:            DedupAuto,
	}
}

// WithMemory keeps every index in process. This is the default.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.addrs = nil
	})
}

// WithRedis stores the posting lists of built-in types in Redis or Valkey.
// Full-text fields stay in process.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster is WithRedis for several seed addresses.
func WithRedisCluster(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
		c.username = username
		c.password = password
	})
}

// WithRedisDB selects the logical database of a standalone server.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "fieldex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the wait for Redis at startup. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	})
}

// WithoutBuiltins registers no types; every tag comes from RegisterType.
func WithoutBuiltins() Option {
	return optionFunc(func(c *clientConfig) {
		c.builtins = false
	})
}

// WithMatchAll makes multi-term "text" queries return only documents
// containing every term. The default returns documents matching any term.
func WithMatchAll() Option {
	return optionFunc(func(c *clientConfig) {
		c.matchAll = true
	})
}

// WithoutFulltext leaves the "fulltext" type unregistered.
func WithoutFulltext() Option {
	return optionFunc(func(c *clientConfig) {
		c.fulltext = false
	})
}

// WithFulltextAnalyzer sets the bleve analyzer of "fulltext" fields.
// Default: bleve's standard analyzer.
func WithFulltextAnalyzer(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.bleveName = name
	})
}

// WithStopwords replaces the stopwords of "text" fields. Empty disables filtering.
func WithStopwords(words []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stopwords = append([]string{}, words...)
	})
}

// WithCaseSensitiveText keeps the case of "text" terms.
func WithCaseSensitiveText() Option {
	return optionFunc(func(c *clientConfig) {
		c.noLower = true
	})
}

// WithWhitespaceTokenizer splits "text" values on white space only, so
// punctuation stays part of the terms.
func WithWhitespaceTokenizer() Option {
	return optionFunc(func(c *clientConfig) {
		c.splitWS = true
	})
}

// WithStemming reduces "text" terms to their English Porter stems, so
// "running" and "runs" match each other.
func WithStemming() Option {
	return optionFunc(func(c *clientConfig) {
		c.stem = true
	})
}

// WithDedup sets the query result dedup policy. Default: DedupAuto.
func WithDedup(d Dedup) Option {
	return optionFunc(func(c *clientConfig) {
		c.dedup = d
	})
}

// WithResolveCache caches up to size successful resolutions. Default: off.
func WithResolveCache(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
	})
}

// WithBatchParallelism bounds the values of one document dispatched at once.
// Default: 8.
func WithBatchParallelism(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.parallelism = n
	})
}

// WithMaxBatchValues limits the values per document. Default: 256.
func WithMaxBatchValues(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxValues = n
	})
}

// WithStrictBatch makes IndexDocument index nothing when any value fails
// lookup or parsing.
func WithStrictBatch() Option {
	return optionFunc(func(c *clientConfig) {
		c.strict = true
	})
}

// WithLogger enables structured logging. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
