package browser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wayfarer").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "wayfarer",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is the Prometheus instrumentation for one synchronizer. All
// recording methods are nil-safe so uninstrumented synchronizers pay
// nothing.
//
// Metrics collected:
//   - wayfarer_navigations_total: Counter of programmatic navigations by kind
//   - wayfarer_pops_total: Counter of browser pops by direction
//   - wayfarer_pops_resolved_total: Counter of pop outcomes (committed/reverted)
//   - wayfarer_vetoes_total: Counter of gate rejections
//   - wayfarer_settle_retries: Histogram of polls needed per settle wait
//   - wayfarer_settle_timeouts_total: Counter of settle waits that hit the bound
type Metrics struct {
	navigations    *prometheus.CounterVec
	pops           *prometheus.CounterVec
	popsResolved   *prometheus.CounterVec
	vetoes         prometheus.Counter
	settleRetries  prometheus.Histogram
	settleTimeouts prometheus.Counter
}

// NewMetrics registers the navigation metrics and returns the
// instance to attach via WithMetrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total programmatic navigations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		pops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pops_total",
			Help:        "Total browser back/forward pops by direction",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		popsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pops_resolved_total",
			Help:        "Total pop resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		vetoes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "vetoes_total",
			Help:        "Total navigations rejected by the gate",
			ConstLabels: config.ConstLabels,
		}),

		settleRetries: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "settle_retries",
			Help:        "Polls needed for the native browser to settle",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 45},
		}),

		settleTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "settle_timeouts_total",
			Help:        "Settle waits that exhausted the retry bound",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) navigation(kind string) {
	if m != nil {
		m.navigations.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) pop(direction string) {
	if m != nil {
		m.pops.WithLabelValues(direction).Inc()
	}
}

func (m *Metrics) popResolved(outcome string) {
	if m != nil {
		m.popsResolved.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) veto() {
	if m != nil {
		m.vetoes.Inc()
	}
}

func (m *Metrics) observeSettleRetries(tries int) {
	if m != nil {
		m.settleRetries.Observe(float64(tries))
	}
}

func (m *Metrics) settleTimeout() {
	if m != nil {
		m.settleTimeouts.Inc()
	}
}
