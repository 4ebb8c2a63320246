package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters and histograms exposed on /metrics.
// A single instance is created at startup and threaded through the services
// that record into it.
type Metrics struct {
	registry *prometheus.Registry

	// FetchTotal counts upstream sheet fetches by transport and outcome.
	FetchTotal *prometheus.CounterVec

	// FetchDuration observes upstream fetch latency by transport.
	FetchDuration *prometheus.HistogramVec

	// NegotiationAttempts observes how many contract permutations a
	// discovery run tried before settling or failing.
	NegotiationAttempts prometheus.Histogram

	// DatasetBuildTotal counts derived-series builds by dataset and outcome.
	DatasetBuildTotal *prometheus.CounterVec

	// RequestDuration observes HTTP handler latency by route and status.
	RequestDuration *prometheus.HistogramVec

	// ExportTotal counts dataset exports by dataset and format.
	ExportTotal *prometheus.CounterVec
}

// NewMetrics builds a Metrics instance backed by its own registry so tests
// can create instances without colliding on the default one.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "fetch_total",
			Help:      "Upstream sheet fetches by transport and outcome.",
		}, []string{"transport", "outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream sheet fetch latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"transport"}),
		NegotiationAttempts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "negotiation_attempts",
			Help:      "Contract permutations tried per discovery run.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		DatasetBuildTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "dataset_build_total",
			Help:      "Derived series builds by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP handler latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
		ExportTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "export_total",
			Help:      "Dataset exports by dataset and format.",
		}, []string{"dataset", "format"}),
	}
}

// Handler returns the HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one upstream fetch.
func (m *Metrics) ObserveFetch(transport string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.FetchTotal.WithLabelValues(transport, outcome).Inc()
	m.FetchDuration.WithLabelValues(transport).Observe(seconds)
}

// ObserveDatasetBuild records one derived-series build.
func (m *Metrics) ObserveDatasetBuild(dataset string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.DatasetBuildTotal.WithLabelValues(dataset, outcome).Inc()
}
