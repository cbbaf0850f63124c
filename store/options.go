package store

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultTracerName = "github.com/on-the-ground/composable_go/store"

type config[S any] struct {
	ctx     context.Context
	logger  *zap.Logger
	metrics *MetricsConfig
	tracer  trace.Tracer
	equal   func(a, b S) bool
}

// Option configures a root store.
type Option[S any] func(*config[S])

// WithContext sets the parent context of every effect the store runs.
// Cancelling it has the same effect as Close on running effects.
func WithContext[S any](ctx context.Context) Option[S] {
	return func(c *config[S]) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger for store lifecycle events, logged at debug level.
func WithLogger[S any](logger *zap.Logger) Option[S] {
	return func(c *config[S]) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics[S any](opts ...MetricsOption) Option[S] {
	return func(c *config[S]) {
		mc := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&mc)
		}
		c.metrics = &mc
	}
}

// WithTracer sets the tracer used for the span around every reduced action.
// The default resolves a tracer from the global provider.
func WithTracer[S any](tracer trace.Tracer) Option[S] {
	return func(c *config[S]) {
		c.tracer = tracer
	}
}

// WithEquality sets how the store decides whether a drain changed state.
// Observers are only notified when equal reports false.
func WithEquality[S any](equal func(a, b S) bool) Option[S] {
	return func(c *config[S]) {
		c.equal = equal
	}
}

func defaultConfig[S any]() config[S] {
	logger, _ := zap.NewProduction()
	return config[S]{
		ctx:    context.Background(),
		logger: logger,
		tracer: otel.Tracer(defaultTracerName),
	}
}
