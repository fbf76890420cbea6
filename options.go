package mediacat

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/mediacat/internal/config"
)

// Option configures the Catalog.
type Option interface {
	apply(*catalogConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*catalogConfig)

func (f optionFunc) apply(c *catalogConfig) { f(c) }

type catalogConfig struct {
	storage   config.StorageConfig
	readiness time.Duration

	fuzzyThreshold *float64
	collation      string
	buckets        []Bucket

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFile stores records in a JSON array file, created when missing.
func WithFile(path string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.storage = config.StorageConfig{Driver: config.DriverFile, Path: path}
	})
}

// WithSQLite stores records in a SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.storage = config.StorageConfig{Driver: config.DriverSQLite, Path: path}
	})
}

// WithRedis stores records in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.storage = config.StorageConfig{Driver: config.DriverRedis, Addrs: []string{addr}, Password: password}
	})
}

// WithValkey stores records in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.storage = config.StorageConfig{Driver: config.DriverValkey, Addrs: []string{addr}, Password: password}
	})
}

// WithKeyPrefix sets the key prefix for Redis and Valkey. Must follow WithRedis or WithValkey.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.storage.KeyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the initial storage readiness wait. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *catalogConfig) {
		c.readiness = d
	})
}

// WithFuzzyThreshold sets the maximum normalized distance for name matches, in [0,1]. Default: 0.3.
func WithFuzzyThreshold(t float64) Option {
	return optionFunc(func(c *catalogConfig) {
		c.fuzzyThreshold = &t
	})
}

// WithCollation sets the BCP 47 language tag used to order names. Default: "en".
func WithCollation(tag string) Option {
	return optionFunc(func(c *catalogConfig) {
		c.collation = tag
	})
}

// WithHomeBuckets replaces the landing page sections.
func WithHomeBuckets(buckets ...Bucket) Option {
	return optionFunc(func(c *catalogConfig) {
		c.buckets = buckets
	})
}

// WithLogger enables structured logging for catalog operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *catalogConfig) {
		c.logger = l
	})
}

// WithPrometheus registers operation counts and durations on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *catalogConfig) {
		c.metricsReg = reg
	})
}
