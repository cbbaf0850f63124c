package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation of a store.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "composable").
	Namespace string

	// Subsystem is the metrics subsystem (default: "store").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for reduce duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the store metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "composable",
		Subsystem: "store",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	actionsTotal     *prometheus.CounterVec
	reduceDuration   prometheus.Histogram
	effectsStarted   prometheus.Counter
	effectsCancelled prometheus.Counter
	effectsInFlight  prometheus.Gauge
	outputsDropped   prometheus.Counter
	notifications    prometheus.Counter
}

func newMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of actions reduced, by action type",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		reduceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reduce_duration_seconds",
			Help:        "Time spent in the reducer per action",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_started_total",
			Help:        "Total number of effect subscriptions",
			ConstLabels: config.ConstLabels,
		}),

		effectsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_cancelled_total",
			Help:        "Total number of effect subscriptions torn down before completion",
			ConstLabels: config.ConstLabels,
		}),

		effectsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_in_flight",
			Help:        "Number of effect subscriptions not yet completed",
			ConstLabels: config.ConstLabels,
		}),

		outputsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "outputs_dropped_total",
			Help:        "Effect outputs discarded because their subscription was cancelled",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of change notifications delivered to observers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *metrics) reduced(action string, seconds float64) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action).Inc()
	m.reduceDuration.Observe(seconds)
}

func (m *metrics) effectStarted() {
	if m == nil {
		return
	}
	m.effectsStarted.Inc()
	m.effectsInFlight.Inc()
}

func (m *metrics) effectFinished(cancelled bool) {
	if m == nil {
		return
	}
	m.effectsInFlight.Dec()
	if cancelled {
		m.effectsCancelled.Inc()
	}
}

func (m *metrics) outputDropped() {
	if m == nil {
		return
	}
	m.outputsDropped.Inc()
}

func (m *metrics) notified() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}
