package pagination

import "github.com/rs/zerolog"

// Config holds engine configuration.
type Config struct {
	// Limit is the page size sent with every request. 0 leaves the page size
	// to the source and lets the engine infer it from the first page.
	Limit int

	// MaxConcurrency caps in-flight requests of the concurrent strategy.
	// 0 requests all remaining pages at once.
	MaxConcurrency int

	// Logger receives engine logs (default: global logger, component=pagination).
	Logger *zerolog.Logger
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Limit:          0,
		MaxConcurrency: 0,
	}
}

// Option customizes the engine built by the package-level functions.
type Option func(*Config)

// WithLimit sets Config.Limit.
func WithLimit(limit int) Option {
	return func(c *Config) {
		c.Limit = limit
	}
}

// WithMaxConcurrency sets Config.MaxConcurrency.
func WithMaxConcurrency(n int) Option {
	return func(c *Config) {
		c.MaxConcurrency = n
	}
}

// WithLogger sets Config.Logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &logger
	}
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
