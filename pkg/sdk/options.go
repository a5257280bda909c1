package catalogsearch

import (
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

const (
	driverBleve = "bleve"
	driverRedis = "redis"
)

type clientConfig struct {
	driver    string // "bleve" or "redis"
	path      string
	addrs     []string
	password  string
	keyPrefix string

	indexes   []Index
	indexName string

	workers      int
	maxBatchSize int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBleve stores the search index in an embedded bleve index under path.
// An empty path keeps the index in memory.
func WithBleve(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverBleve
		c.path = path
	})
}

// WithRedis configures the client to connect to a Redis 8 instance or cluster.
func WithRedis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = addrs
	})
}

// WithPassword sets the Redis password.
func WithPassword(password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.password = password
	})
}

// WithKeyPrefix namespaces every Redis key the client writes.
// Default: "catalogsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCatalog declares the catalog indexes. Repeated calls append.
func WithCatalog(indexes ...Index) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexes = append(c.indexes, indexes...)
	})
}

// WithIndexName sets the search index name. Default: "catalog".
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithWorkers bounds how many records of a batch are indexed concurrently.
// Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithMaxBatchSize sets the maximum number of records per batch.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
