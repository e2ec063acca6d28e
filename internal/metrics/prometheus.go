package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// PrometheusRecorder reports pricing metrics using Prometheus primitives.
type PrometheusRecorder struct {
	calculations *prometheus.CounterVec
	floorClamps  *prometheus.CounterVec
	durations    prometheus.Histogram
}

// NewPrometheusRecorder registers the pricing collectors on registry.
func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hpp_pricing_calculations_total",
			Help: "Total number of pricing calculations by base mode and outcome",
		}, []string{"mode", "outcome"}),
		floorClamps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hpp_pricing_floor_clamps_total",
			Help: "Total number of unit prices raised to the policy floor",
		}, []string{"mode"}),
		durations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hpp_pricing_calculation_duration_seconds",
			Help:    "Pricing calculation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, collector := range []prometheus.Collector{r.calculations, r.floorClamps, r.durations} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveCalculation records one pricing calculation.
func (r *PrometheusRecorder) ObserveCalculation(mode string, outcome string, floorApplied bool, duration time.Duration) {
	r.calculations.WithLabelValues(mode, outcome).Inc()
	if floorApplied {
		r.floorClamps.WithLabelValues(mode).Inc()
	}
	r.durations.Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Nop discards observations.
type Nop struct{}

// ObserveCalculation does nothing.
func (Nop) ObserveCalculation(string, string, bool, time.Duration) {}
