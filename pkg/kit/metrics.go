package kit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelCommand = "command"
	labelReason  = "reason"
)

// Metrics instruments the marketplace TCP server. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Connections prometheus.Counter
	Active      prometheus.Gauge
	Rejected    *prometheus.CounterVec
	Commands    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bazaar_connections_total",
				Help: "Accepted protocol connections",
			},
		),
		Active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bazaar_connections_active",
				Help: "Connections currently being served",
			},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazaar_connections_rejected_total",
				Help: "Connections closed by the admission policy",
			},
			[]string{labelReason},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazaar_commands_total",
				Help: "Dispatched protocol commands",
			},
			[]string{labelCommand},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bazaar_command_duration_seconds",
				Help:    "Time spent dispatching a command",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{labelCommand},
		),
	}

	reg.MustRegister(m.Connections, m.Active, m.Rejected, m.Commands, m.Latency)
	return m
}

func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.Connections.Inc()
	m.Active.Inc()
}

func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.Active.Dec()
}

func (m *Metrics) ConnRejected(reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Observe(command string, start time.Time) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command).Inc()
	m.Latency.WithLabelValues(command).Observe(time.Since(start).Seconds())
}
