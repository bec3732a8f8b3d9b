package fetcher

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.MaxBodySize != 5*1024*1024 {
		t.Errorf("MaxBodySize = %d, want 5MB", cfg.MaxBodySize)
	}
	if cfg.MaxRedirects != 5 {
		t.Errorf("MaxRedirects = %d, want 5", cfg.MaxRedirects)
	}
	if !cfg.DenyPrivateIPs {
		t.Error("DenyPrivateIPs should default to true")
	}
	if !strings.Contains(cfg.UserAgent, "Mozilla") {
		t.Errorf("UserAgent not browser-like: %q", cfg.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PageFetchConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *PageFetchConfig) {}, wantErr: false},
		{name: "zero timeout", mutate: func(c *PageFetchConfig) { c.Timeout = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *PageFetchConfig) { c.Timeout = -time.Second }, wantErr: true},
		{name: "body size too small", mutate: func(c *PageFetchConfig) { c.MaxBodySize = 512 }, wantErr: true},
		{name: "body size too large", mutate: func(c *PageFetchConfig) { c.MaxBodySize = 200 * 1024 * 1024 }, wantErr: true},
		{name: "negative redirects", mutate: func(c *PageFetchConfig) { c.MaxRedirects = -1 }, wantErr: true},
		{name: "too many redirects", mutate: func(c *PageFetchConfig) { c.MaxRedirects = 20 }, wantErr: true},
		{name: "zero host rps", mutate: func(c *PageFetchConfig) { c.HostRequestsPerSecond = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *PageFetchConfig) { c.HostBurst = 0 }, wantErr: true},
		{name: "empty user agent", mutate: func(c *PageFetchConfig) { c.UserAgent = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PAGE_FETCH_TIMEOUT", "30s")
	t.Setenv("PAGE_FETCH_MAX_BODY_SIZE", "2097152")
	t.Setenv("PAGE_FETCH_MAX_REDIRECTS", "3")
	t.Setenv("PAGE_FETCH_HOST_RPS", "0.5")
	t.Setenv("PAGE_FETCH_HOST_BURST", "1")
	t.Setenv("PAGE_FETCH_DENY_PRIVATE_IPS", "false")
	t.Setenv("PAGE_FETCH_USER_AGENT", "custom-agent/1.0")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv err=%v", err)
	}

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxBodySize != 2097152 {
		t.Errorf("MaxBodySize = %d, want 2097152", cfg.MaxBodySize)
	}
	if cfg.MaxRedirects != 3 {
		t.Errorf("MaxRedirects = %d, want 3", cfg.MaxRedirects)
	}
	if cfg.HostRequestsPerSecond != 0.5 {
		t.Errorf("HostRequestsPerSecond = %v, want 0.5", cfg.HostRequestsPerSecond)
	}
	if cfg.DenyPrivateIPs {
		t.Error("DenyPrivateIPs should be false")
	}
	if cfg.UserAgent != "custom-agent/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
}

func TestLoadConfigFromEnv_invalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad timeout", key: "PAGE_FETCH_TIMEOUT", value: "soon"},
		{name: "bad body size", key: "PAGE_FETCH_MAX_BODY_SIZE", value: "big"},
		{name: "bad redirects", key: "PAGE_FETCH_MAX_REDIRECTS", value: "few"},
		{name: "bad rps", key: "PAGE_FETCH_HOST_RPS", value: "slow"},
		{name: "invalid after load", key: "PAGE_FETCH_MAX_REDIRECTS", value: "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfigFromEnv(); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}
