package extractor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExtractionMetricsRecorder defines the interface for recording extraction
// metrics. The interface exists so tests can inject a mock recorder and so
// the metrics backend can be swapped without touching the API adapters.
type ExtractionMetricsRecorder interface {
	// RecordItems records how many candidates one extraction produced.
	RecordItems(count int)

	// RecordDuration records the time taken by one extraction API call.
	RecordDuration(duration time.Duration)

	// RecordOutcome records whether the API call itself succeeded.
	RecordOutcome(success bool)

	// RecordParseFailure increments the counter for responses that could
	// not be parsed as an opportunity array.
	RecordParseFailure()
}

// PrometheusExtractionMetrics implements ExtractionMetricsRecorder using
// Prometheus metrics.
type PrometheusExtractionMetrics struct {
	itemsHistogram    prometheus.Histogram
	durationHistogram prometheus.Histogram
	outcomeCounter    *prometheus.CounterVec
	parseFailures     prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusExtractionMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// getOrCreateCounter gets an existing counter or creates a new one if it doesn't exist
func getOrCreateCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		return promauto.NewCounter(opts)
	}
	return c
}

// getOrCreateCounterVec gets an existing counter vec or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusExtractionMetrics creates the Prometheus-backed recorder.
// Uses a singleton to avoid duplicate metric registration in tests.
func NewPrometheusExtractionMetrics() *PrometheusExtractionMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusExtractionMetrics{
			itemsHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "extraction_items_per_call",
				Help:    "Distribution of candidates produced per extraction call",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			}),
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "extraction_duration_seconds",
				Help:    "Time taken by one extraction API call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			outcomeCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "extraction_calls_total",
				Help: "Total extraction API calls by outcome",
			}, []string{"outcome"}),
			parseFailures: getOrCreateCounter(prometheus.CounterOpts{
				Name: "extraction_parse_failures_total",
				Help: "Total model responses that could not be parsed as an opportunity array",
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordItems implements ExtractionMetricsRecorder.RecordItems
func (p *PrometheusExtractionMetrics) RecordItems(count int) {
	p.itemsHistogram.Observe(float64(count))
}

// RecordDuration implements ExtractionMetricsRecorder.RecordDuration
func (p *PrometheusExtractionMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordOutcome implements ExtractionMetricsRecorder.RecordOutcome
func (p *PrometheusExtractionMetrics) RecordOutcome(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.outcomeCounter.WithLabelValues(outcome).Inc()
}

// RecordParseFailure implements ExtractionMetricsRecorder.RecordParseFailure
func (p *PrometheusExtractionMetrics) RecordParseFailure() {
	p.parseFailures.Inc()
}
