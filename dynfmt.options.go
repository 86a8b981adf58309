package dynfmt

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Formatter.
type Option func(*formatterConfig)

// formatterConfig holds the internal configuration for a Formatter.
type formatterConfig struct {
	storage DictionaryStorage
	logger  *zap.Logger
	tracer  trace.Tracer
}

// defaultFormatterConfig returns the default formatter configuration.
func defaultFormatterConfig() *formatterConfig {
	return &formatterConfig{}
}

// WithStorage sets the storage used by FormatNamed and LoadDictionaries.
// Default: nil (named lookups fail)
func WithStorage(storage DictionaryStorage) Option {
	return func(c *formatterConfig) {
		c.storage = storage
	}
}

// WithLogger sets the logger for the formatter.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *formatterConfig) {
		c.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer for the formatter.
// Default: the tracer named "dynfmt" from the global provider
func WithTracer(tracer trace.Tracer) Option {
	return func(c *formatterConfig) {
		c.tracer = tracer
	}
}
