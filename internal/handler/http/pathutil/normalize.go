package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// pathPatterns lists the dynamic routes, most specific first.
// Pre-compiled at initialization.
var pathPatterns = []pathPattern{
	{pattern: regexp.MustCompile(`^/sources/\d+/logs$`), template: "/sources/:id/logs"},
	{pattern: regexp.MustCompile(`^/sources/\d+/health$`), template: "/sources/:id/health"},
	{pattern: regexp.MustCompile(`^/sources/\d+/crawl$`), template: "/sources/:id/crawl"},
	{pattern: regexp.MustCompile(`^/sources/\d+/pause$`), template: "/sources/:id/pause"},
	{pattern: regexp.MustCompile(`^/sources/\d+/resume$`), template: "/sources/:id/resume"},
	{pattern: regexp.MustCompile(`^/sources/\d+/disable$`), template: "/sources/:id/disable"},
	{pattern: regexp.MustCompile(`^/sources/\d+$`), template: "/sources/:id"},
	{pattern: regexp.MustCompile(`^/drafts/\d+$`), template: "/drafts/:id"},
}

// NormalizePath maps dynamic URL paths to templates so metrics labels keep
// a bounded cardinality. Static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/sources/123")       // "/sources/:id"
//	NormalizePath("/sources/123/logs")  // "/sources/:id/logs"
//	NormalizePath("/crawl/stats")       // "/crawl/stats" (unchanged)
//	NormalizePath("/sources/123?x=1")   // "/sources/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}

	// Static paths like /healthz, /metrics, /crawl/stats pass through.
	return path
}
