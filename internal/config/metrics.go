package config

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by a Config.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	writes          *prometheus.CounterVec // By kind
	persistFailures *prometheus.CounterVec // By op (write/remove/flush)
	notifications   *prometheus.CounterVec // By change type
	sourceFailures  *prometheus.CounterVec // By defaults source name
	overridden      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prefs",
			Subsystem: "settings",
			Name:      "writes_total",
			Help:      "Total number of setting values written to the store",
		}, []string{"kind"}),

		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prefs",
			Subsystem: "settings",
			Name:      "persist_failures_total",
			Help:      "Total number of store operations that failed and were ignored",
		}, []string{"op"}),

		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prefs",
			Subsystem: "settings",
			Name:      "notifications_total",
			Help:      "Total number of change notifications fired",
		}, []string{"type"}),

		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prefs",
			Subsystem: "defaults",
			Name:      "source_failures_total",
			Help:      "Total number of defaults sources that failed to load",
		}, []string{"source"}),

		overridden: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "prefs",
			Subsystem: "settings",
			Name:      "overridden",
			Help:      "Number of settings whose value differs from the default",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.writes, m.persistFailures, m.notifications, m.sourceFailures, m.overridden}
}

func (m *Metrics) recordWrite(kind string) {
	if m != nil {
		m.writes.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) recordPersistFailure(op string) {
	if m != nil {
		m.persistFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) recordNotification(changeType string) {
	if m != nil {
		m.notifications.WithLabelValues(changeType).Inc()
	}
}

func (m *Metrics) recordSourceFailure(source string) {
	if m != nil {
		m.sourceFailures.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) setOverridden(n int) {
	if m != nil {
		m.overridden.Set(float64(n))
	}
}
