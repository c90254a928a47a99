package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch Prometheus metrics.
var (
	DispatchOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldex",
			Name:      "dispatch_operations_total",
			Help:      "Total number of dispatcher operations",
		},
		[]string{"op", "status"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fieldex",
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatcher operation duration in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)

	ResolveCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldex",
			Name:      "resolve_cache_total",
			Help:      "Resolution cache hits and misses",
		},
		[]string{"tag", "result"}, // "hit" / "miss"
	)

	BatchValuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldex",
			Name:      "batch_values_total",
			Help:      "Document values processed by batch indexing",
		},
		[]string{"status"},
	)

	FieldsDeclared = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fieldex",
			Name:      "fields_declared",
			Help:      "Number of fields declared by every client in the process",
		},
	)
)

var registerDispatchOnce sync.Once

func dispatchCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		DispatchOperationsTotal,
		DispatchDuration,
		ResolveCacheTotal,
		BatchValuesTotal,
		FieldsDeclared,
	}
}

// RegisterDispatchMetrics registers dispatch metrics with the default registry.
// Safe to call more than once.
func RegisterDispatchMetrics() {
	registerDispatchOnce.Do(func() {
		prometheus.MustRegister(dispatchCollectors()...)
	})
}

// RegisterDispatchMetricsWith registers dispatch metrics with reg. Collectors
// already registered there are kept.
func RegisterDispatchMetricsWith(reg prometheus.Registerer) error {
	for _, c := range dispatchCollectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register dispatch metric: %w", err)
		}
	}
	return nil
}

// Status maps an error to the status label value.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// CacheResult maps a cache lookup to the result label value.
func CacheResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
