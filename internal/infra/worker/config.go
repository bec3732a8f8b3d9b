// Package worker runs the scheduled due-source scan: on each cron tick it
// asks the schedule service which sources are due and starts a crawl for
// each through the pipeline.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"opportunity-scout/internal/pkg/config"
)

// WorkerConfig controls the scan schedule and the worker's operational
// endpoints. All fields have defaults; invalid environment values fall back
// to them rather than failing startup.
type WorkerConfig struct {
	// ScanSchedule is the 5-field cron expression for due-source scans.
	ScanSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// ScanTimeout bounds one full scan including the crawls it starts.
	ScanTimeout time.Duration

	// HealthPort serves the worker's liveness/readiness probes.
	HealthPort int
}

// DefaultConfig scans every 10 minutes in UTC with a 30 minute timeout.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		ScanSchedule: "*/10 * * * *",
		Timezone:     "UTC",
		ScanTimeout:  30 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and aggregates the failures.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.ScanSchedule); err != nil {
		errs = append(errs, fmt.Errorf("scan schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ScanTimeout); err != nil {
		errs = append(errs, fmt.Errorf("scan timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration fail-open: each invalid
// value is replaced by its default, logged, and counted in metrics. The
// returned config is always valid.
//
// Environment variables:
//   - CRAWL_SCAN_SCHEDULE: cron expression (default "*/10 * * * *")
//   - WORKER_TIMEZONE: IANA timezone (default "UTC")
//   - CRAWL_SCAN_TIMEOUT: duration 1m-4h (default 30m)
//   - WORKER_HEALTH_PORT: port 1024-65535 (default 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, warnings []string) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, w := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	result := config.LoadEnvWithFallback("CRAWL_SCAN_SCHEDULE", cfg.ScanSchedule, config.ValidateCronSchedule)
	cfg.ScanSchedule = result.Value.(string)
	if result.FallbackApplied {
		warn("scan_schedule", result.Warnings)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		warn("timezone", result.Warnings)
	}

	result = config.LoadEnvDuration("CRAWL_SCAN_TIMEOUT", cfg.ScanTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.ScanTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		warn("scan_timeout", result.Warnings)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		warn("health_port", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()
	return &cfg, nil
}
