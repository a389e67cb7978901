package placesearch

import (
	"time"

	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/domain/search/request"
	searchuc "github.com/citystory/placesearch/internal/usecase/search"
)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	logger           *zap.Logger
	tuning           searchuc.Tuning
	limits           request.Limits
	readinessTimeout time.Duration

	cacheTTL        time.Duration
	cacheMaxResults int
	cachePrefix     string
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		logger:           zap.NewNop(),
		tuning:           searchuc.DefaultTuning(),
		limits:           request.Limits{DefaultPageSize: 20, MaxPageSize: 100},
		readinessTimeout: defaultReadinessTimeout,
		cacheTTL:         5 * time.Minute,
		cacheMaxResults:  1000,
		cachePrefix:      "placesearch:",
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithCredentials sets the database username and password.
func WithCredentials(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDB selects a Redis logical database.
func WithDB(db int) Option {
	return func(c *clientConfig) { c.db = db }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithTuning overrides the ranking thresholds.
func WithTuning(t searchuc.Tuning) Option {
	return func(c *clientConfig) { c.tuning = t }
}

// WithPageLimits sets the default and maximum page sizes.
func WithPageLimits(defaultSize, maxSize int) Option {
	return func(c *clientConfig) {
		c.limits = request.Limits{DefaultPageSize: defaultSize, MaxPageSize: maxSize}
	}
}

// WithCache configures the result cache. ttl 0 disables caching.
func WithCache(ttl time.Duration, maxResults int) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
		c.cacheMaxResults = maxResults
	}
}

// WithReadinessTimeout bounds how long New waits for the database.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.readinessTimeout = d }
}
