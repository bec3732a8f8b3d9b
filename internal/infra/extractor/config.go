// Package extractor provides AI-powered opportunity extraction implementations.
// It includes adapters for Claude (Anthropic) and OpenAI APIs with reliability
// patterns, plus a NoOp implementation for development without API keys.
package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultTimeout         = 120 * time.Second
	minTimeout             = 5 * time.Second
	maxTimeout             = 10 * time.Minute
	defaultMaxContentChars = 30000
	minMaxContentChars     = 1000
	maxMaxContentChars     = 150000
)

// Config holds configuration shared by the extractor implementations.
// Configuration is loaded from environment variables with fallback to
// defaults.
type Config struct {
	// Type selects the implementation: "claude", "openai", or "noop".
	// Loaded from EXTRACTOR_TYPE. Default: "claude".
	Type string

	// Model overrides the API model identifier. Empty selects the
	// implementation's default model.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout bounds a single extraction API call. A hung model call would
	// otherwise leave the owning crawl log running forever.
	// Loaded from EXTRACTOR_TIMEOUT. Default: 120s.
	Timeout time.Duration

	// MaxContentChars is the page content truncation limit before the
	// content is embedded into the prompt.
	// Loaded from EXTRACTOR_MAX_CONTENT_CHARS. Default: 30000.
	MaxContentChars int

	// CategoryFile is an optional YAML file with the known category list.
	// Loaded from CATEGORY_FILE. Empty uses the compiled-in defaults.
	CategoryFile string
}

// LoadConfig loads extractor configuration from environment variables.
// Invalid values fall back to defaults with a warning log rather than
// failing startup.
//
// Environment variables:
//   - EXTRACTOR_TYPE: "claude", "openai", or "noop" (default: "claude")
//   - EXTRACTOR_MODEL: model identifier override
//   - EXTRACTOR_MAX_TOKENS: integer (default: 4096)
//   - EXTRACTOR_TIMEOUT: duration string (default: 120s, range 5s-10m)
//   - EXTRACTOR_MAX_CONTENT_CHARS: integer (default: 30000)
//   - CATEGORY_FILE: path to YAML category list
func LoadConfig() Config {
	cfg := Config{
		Type:            "claude",
		MaxTokens:       4096,
		Timeout:         defaultTimeout,
		MaxContentChars: defaultMaxContentChars,
		CategoryFile:    os.Getenv("CATEGORY_FILE"),
	}

	if val := os.Getenv("EXTRACTOR_TYPE"); val != "" {
		switch val {
		case "claude", "openai", "noop":
			cfg.Type = val
		default:
			slog.Warn("Unknown EXTRACTOR_TYPE, using default",
				slog.String("value", val),
				slog.String("default", cfg.Type))
		}
	}

	cfg.Model = os.Getenv("EXTRACTOR_MODEL")

	if val := os.Getenv("EXTRACTOR_MAX_TOKENS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 256 || parsed > 32768 {
			slog.Warn("Invalid EXTRACTOR_MAX_TOKENS, using default",
				slog.String("value", val),
				slog.Int("default", cfg.MaxTokens))
		} else {
			cfg.MaxTokens = parsed
		}
	}

	if val := os.Getenv("EXTRACTOR_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil || parsed < minTimeout || parsed > maxTimeout {
			slog.Warn("Invalid EXTRACTOR_TIMEOUT, using default",
				slog.String("value", val),
				slog.Duration("default", cfg.Timeout))
		} else {
			cfg.Timeout = parsed
		}
	}

	if val := os.Getenv("EXTRACTOR_MAX_CONTENT_CHARS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < minMaxContentChars || parsed > maxMaxContentChars {
			slog.Warn("Invalid EXTRACTOR_MAX_CONTENT_CHARS, using default",
				slog.String("value", val),
				slog.Int("default", cfg.MaxContentChars))
		} else {
			cfg.MaxContentChars = parsed
		}
	}

	return cfg
}

// Validate checks the configuration for values the implementations cannot
// work with.
func (c *Config) Validate() error {
	switch c.Type {
	case "claude", "openai", "noop":
	default:
		return fmt.Errorf("unknown extractor type %q", c.Type)
	}
	if c.Timeout < minTimeout || c.Timeout > maxTimeout {
		return fmt.Errorf("timeout %v outside valid range [%v, %v]", c.Timeout, minTimeout, maxTimeout)
	}
	if c.MaxContentChars < minMaxContentChars || c.MaxContentChars > maxMaxContentChars {
		return fmt.Errorf("max content chars %d outside valid range [%d, %d]",
			c.MaxContentChars, minMaxContentChars, maxMaxContentChars)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// truncateContent enforces the content character cap before prompting.
func truncateContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit] + "...\n(content truncated)"
}
