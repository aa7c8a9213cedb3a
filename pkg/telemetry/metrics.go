package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/groupkit/pkg/group"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "groupkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "groupkit",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records group events as Prometheus metrics.
type Observer struct {
	transitions *prometheus.CounterVec
	refusals    *prometheus.CounterVec
	selected    *prometheus.GaugeVec
	registered  *prometheus.GaugeVec
}

// NewObserver registers the group metrics and returns an observer that updates them.
//
// Metrics collected:
//   - groupkit_transitions_total: Counter of transitions by group, op and outcome
//   - groupkit_refusals_total: Counter of refused transitions by group and reason
//   - groupkit_selected_items: Gauge of selected items per group
//   - groupkit_registered_items: Gauge of registered items per group
//
// NewObserver panics if the metrics are already registered on the registry,
// so create one observer per registry and share it between groups.
func NewObserver(opts ...MetricsOption) *Observer {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of group transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"group", "op", "outcome"}),

		refusals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "refusals_total",
			Help:        "Total number of refused group transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"group", "reason"}),

		selected: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "selected_items",
			Help:        "Number of selected items",
			ConstLabels: config.ConstLabels,
		}, []string{"group"}),

		registered: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "registered_items",
			Help:        "Number of registered items",
			ConstLabels: config.ConstLabels,
		}, []string{"group"}),
	}
}

// ObserveGroup implements group.Observer.
func (o *Observer) ObserveGroup(e group.Event) {
	o.transitions.WithLabelValues(e.Group, string(e.Op), string(e.Outcome)).Inc()
	if e.Outcome == group.OutcomeRefused {
		o.refusals.WithLabelValues(e.Group, reasonLabel(e.Reason)).Inc()
	}
	o.selected.WithLabelValues(e.Group).Set(float64(e.Selected))
	o.registered.WithLabelValues(e.Group).Set(float64(e.Registered))
}

// Forget drops the series of a group that no longer exists.
func (o *Observer) Forget(groupName string) {
	labels := prometheus.Labels{"group": groupName}
	o.transitions.DeletePartialMatch(labels)
	o.refusals.DeletePartialMatch(labels)
	o.selected.DeleteLabelValues(groupName)
	o.registered.DeleteLabelValues(groupName)
}

func reasonLabel(r group.Reason) string {
	if r == group.ReasonNone {
		return "none"
	}
	return string(r)
}

var _ group.Observer = (*Observer)(nil)
