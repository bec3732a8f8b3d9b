package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// PageFetchConfig holds the configuration for source page fetching.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Prevents resource starvation from slow servers
//
// Politeness settings:
//   - HostRequestsPerSecond / HostBurst: per-host rate limiting so a batch
//     of due sources on the same host does not hammer it
type PageFetchConfig struct {
	// Timeout is the maximum duration for a single page request.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Enforced while reading, not from the Content-Length header.
	// Default: 5242880 (5MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is re-validated for SSRF.
	// Default: 5
	MaxRedirects int

	// HostRequestsPerSecond is the sustained per-host request rate.
	// Default: 1
	HostRequestsPerSecond float64

	// HostBurst is the per-host burst allowance.
	// Default: 2
	HostBurst int

	// DenyPrivateIPs controls whether to block URLs resolving to
	// private/loopback/link-local addresses. Should always be true in
	// production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string
}

// DefaultConfig returns production-ready page fetch defaults.
func DefaultConfig() PageFetchConfig {
	return PageFetchConfig{
		Timeout:               15 * time.Second,
		MaxBodySize:           5 * 1024 * 1024, // 5MB
		MaxRedirects:          5,
		HostRequestsPerSecond: 1,
		HostBurst:             2,
		DenyPrivateIPs:        true,
		UserAgent:             "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Validate checks the configuration for values that would be unsafe or
// nonsensical at runtime.
func (c *PageFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.HostRequestsPerSecond <= 0 {
		return fmt.Errorf("host requests per second must be positive, got %v", c.HostRequestsPerSecond)
	}

	if c.HostBurst < 1 {
		return fmt.Errorf("host burst must be at least 1, got %d", c.HostBurst)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables,
// falling back to defaults for unset variables. The result is validated.
//
// Environment variables:
//   - PAGE_FETCH_TIMEOUT: duration string, e.g., "15s" (default: 15s)
//   - PAGE_FETCH_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - PAGE_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - PAGE_FETCH_HOST_RPS: float (default: 1)
//   - PAGE_FETCH_HOST_BURST: integer (default: 2)
//   - PAGE_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - PAGE_FETCH_USER_AGENT: string (default: browser-like UA)
func LoadConfigFromEnv() (PageFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("PAGE_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_TIMEOUT: %v (expected format: '15s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("PAGE_FETCH_HOST_RPS"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_HOST_RPS: %v", err)
		}
		cfg.HostRequestsPerSecond = parsed
	}

	if val := os.Getenv("PAGE_FETCH_HOST_BURST"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_HOST_BURST: %v", err)
		}
		cfg.HostBurst = parsed
	}

	if val := os.Getenv("PAGE_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if val := os.Getenv("PAGE_FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
