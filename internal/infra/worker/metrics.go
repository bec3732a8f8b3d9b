package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"opportunity-scout/internal/pkg/config"
)

// WorkerMetrics tracks scheduled scan executions alongside the standard
// config-load metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// ScanRunsTotal counts due-source scans by outcome (success/failure).
	ScanRunsTotal *prometheus.CounterVec

	// ScanDurationSeconds measures wall time of one scan.
	ScanDurationSeconds prometheus.Histogram

	// ScanCrawlsStartedTotal counts crawls the scanner started.
	ScanCrawlsStartedTotal prometheus.Counter

	// ScanLastSuccessTimestamp is the Unix time of the last clean scan.
	ScanLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and auto-registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		ScanRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_scan_runs_total",
			Help: "Total due-source scan runs by status (success/failure)",
		}, []string{"status"}),

		ScanDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_scan_duration_seconds",
			Help:    "Duration of one due-source scan in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ScanCrawlsStartedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_scan_crawls_started_total",
			Help: "Total crawls started by scheduled scans",
		}),

		ScanLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_scan_last_success_timestamp",
			Help: "Unix timestamp of the last successful scan",
		}),
	}
}

// RecordScanRun counts one scan with status "success" or "failure".
func (m *WorkerMetrics) RecordScanRun(status string) {
	m.ScanRunsTotal.WithLabelValues(status).Inc()
}

// RecordScanDuration observes one scan's duration in seconds.
func (m *WorkerMetrics) RecordScanDuration(seconds float64) {
	m.ScanDurationSeconds.Observe(seconds)
}

// RecordCrawlsStarted adds the number of crawls a scan kicked off.
func (m *WorkerMetrics) RecordCrawlsStarted(count int) {
	m.ScanCrawlsStartedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the last successful scan time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.ScanLastSuccessTimestamp.SetToCurrentTime()
}
