package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/sources/123", "/sources/:id"},
		{"/sources/456/", "/sources/:id"},
		{"/sources/123?limit=5", "/sources/:id"},
		{"/sources/123/logs", "/sources/:id/logs"},
		{"/sources/123/health", "/sources/:id/health"},
		{"/sources/123/crawl", "/sources/:id/crawl"},
		{"/sources/123/pause", "/sources/:id/pause"},
		{"/sources/123/resume", "/sources/:id/resume"},
		{"/sources/123/disable", "/sources/:id/disable"},
		{"/drafts/7", "/drafts/:id"},
		{"/sources", "/sources"},
		{"/sources/active", "/sources/active"},
		{"/sources/due", "/sources/due"},
		{"/crawl/stats", "/crawl/stats"},
		{"/crawl/logs", "/crawl/logs"},
		{"/healthz", "/healthz"},
		{"/metrics", "/metrics"},
		{"/", "/"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
