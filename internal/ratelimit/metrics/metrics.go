package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections  *prometheus.CounterVec
	StoreErrors *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"action"}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_store_errors_total",
			Help: "Bucket store failures that were let through",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementRejection(action string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementStoreError(action string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(action).Inc()
}
