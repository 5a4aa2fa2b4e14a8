package request

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline exchanges. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline collectors and registers them with reg
// when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vab_requests_total",
			Help: "The total number of pipeline exchanges by route and result.",
		}, []string{"route", "result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vab_request_retries_total",
			Help: "The total number of re-dispatches after a transport failure.",
		}, []string{"route"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vab_request_duration_seconds",
			Help:    "Duration of pipeline exchanges including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.retries, m.duration)
	}
	return m
}

func (m *Metrics) observe(route, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, result).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) retried(route string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(route).Inc()
}
