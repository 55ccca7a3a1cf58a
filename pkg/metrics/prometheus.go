package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the service-level metrics sinks using Prometheus.
type Recorder struct {
	upstreamCalls *prometheus.CounterVec
	rotations     prometheus.Counter
	cacheLookups  *prometheus.CounterVec
	probeFlags    *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder on reg. Tests pass a fresh registry so
// repeated construction does not panic on duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldsense_upstream_calls_total",
				Help: "Calls to external providers by outcome",
			},
			[]string{"upstream", "outcome"},
		),
		rotations: f.NewCounter(
			prometheus.CounterOpts{
				Name: "yieldsense_credential_rotations_total",
				Help: "Number of news credential rotations",
			},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldsense_cache_lookups_total",
				Help: "Response cache lookups by namespace and result",
			},
			[]string{"namespace", "result"},
		),
		probeFlags: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldsense_probe_flags_total",
				Help: "Token pairs flagged as repeated probing",
			},
			[]string{"pair"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yieldsense_last_price_usd",
				Help: "Last resolved USD price for a token",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yieldsense_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldsense_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

func (r *Recorder) RecordUpstream(upstream, outcome string) {
	r.upstreamCalls.WithLabelValues(upstream, outcome).Inc()
}

func (r *Recorder) RecordRotation() {
	r.rotations.Inc()
}

func (r *Recorder) RecordCacheLookup(namespace string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func (r *Recorder) RecordProbe(pair string) {
	r.probeFlags.WithLabelValues(pair).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordLatency(op string, d time.Duration) {
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
