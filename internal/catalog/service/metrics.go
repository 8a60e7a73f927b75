package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks store mutations. A nil *Metrics records nothing.
type Metrics struct {
	mutations   *prometheus.CounterVec
	persistTime prometheus.Histogram
	products    prometheus.Gauge
}

// NewMetrics registers the catalog collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "mutations_total",
			Help:      "Store mutations by operation and result.",
		}, []string{"op", "result"}),
		persistTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "snapshot_write_seconds",
			Help:      "Time spent writing the full snapshot to the slot.",
			Buckets:   prometheus.DefBuckets,
		}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "catalog",
			Name:      "products",
			Help:      "Number of products currently in the store.",
		}),
	}
	reg.MustRegister(m.mutations, m.persistTime, m.products)
	return m
}

func (m *Metrics) observe(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(op, result).Inc()
	m.persistTime.Observe(d.Seconds())
}

func (m *Metrics) setCount(n int) {
	if m == nil {
		return
	}
	m.products.Set(float64(n))
}
