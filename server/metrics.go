package server

import (
	"github.com/brensch/c4killer/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors of the server.
type Metrics struct {
	moves    prometheus.Counter
	errors   *prometheus.CounterVec
	duration prometheus.Histogram
	boards   prometheus.Histogram
	sessions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		moves: f.NewCounter(prometheus.CounterOpts{
			Name: "c4killer_moves_total",
			Help: "Number of moves selected",
		}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "c4killer_move_errors_total",
			Help: "Number of rejected move requests by reason",
		}, []string{"reason"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "c4killer_move_duration_seconds",
			Help:    "Time spent selecting a move",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}),
		boards: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "c4killer_move_boards",
			Help:    "Boards searched per move",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "c4killer_ws_sessions",
			Help: "Open websocket sessions",
		}),
	}
}

func (m *Metrics) observeMove(d agent.Decision) {
	m.moves.Inc()
	m.duration.Observe(d.Elapsed.Seconds())
	m.boards.Observe(float64(d.Boards))
}

func (m *Metrics) observeError(reason string) {
	m.errors.WithLabelValues(reason).Inc()
}
