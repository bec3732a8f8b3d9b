package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"opportunity-scout/internal/observability/metrics"
	"opportunity-scout/internal/resilience/circuitbreaker"
	"opportunity-scout/internal/usecase/crawl"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// HTTPPageFetcher implements crawl.PageFetcher over plain HTTP GET requests.
//
// Features:
//   - SSRF prevention via URL validation, including redirect targets
//   - Circuit breaker for fault tolerance
//   - Per-host rate limiting so batches of sources on one host stay polite
//   - Size limiting to prevent memory exhaustion
//   - Script/style/noscript stripping before the content reaches the AI
//
// Thread safety: HTTPPageFetcher is safe for concurrent use.
type HTTPPageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         PageFetchConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPPageFetcher creates a page fetcher with the given configuration.
func NewHTTPPageFetcher(config PageFetchConfig) *HTTPPageFetcher {
	f := &HTTPPageFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		config:         config,
		limiters:       make(map[string]*rate.Limiter),
	}

	f.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: more than %d redirects", crawl.ErrNetwork, f.config.MaxRedirects)
			}
			// Every redirect target gets the same SSRF check as the
			// original URL.
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchPageContent fetches the source page and returns its sanitized HTML.
// Failures map onto the crawl package's fetch error classes so the pipeline
// can record a precise reason on the crawl log.
func (f *HTTPPageFetcher) FetchPageContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	if err := f.waitForHost(ctx, urlStr); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %v", crawl.ErrNetwork, err)
	}

	start := time.Now()
	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		metrics.RecordPageFetchFailed(classifyFetchError(err), time.Since(start))
		return "", err
	}

	content := result.(string)
	metrics.RecordPageFetchSuccess(time.Since(start), len(content))
	return content, nil
}

// waitForHost blocks until the per-host politeness limiter admits a request.
func (f *HTTPPageFetcher) waitForHost(ctx context.Context, urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	f.mu.Lock()
	limiter, ok := f.limiters[u.Hostname()]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(f.config.HostRequestsPerSecond), f.config.HostBurst)
		f.limiters[u.Hostname()] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

func (f *HTTPPageFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", crawl.ErrNetwork, err)
	}

	// Browser-like request signature. Some listing sites serve bot
	// user agents an empty shell page.
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		timedOut := reqCtx.Err() == context.DeadlineExceeded ||
			(errors.As(err, &urlErr) && urlErr.Timeout())
		if timedOut {
			return "", fmt.Errorf("%w: request exceeded %v", crawl.ErrFetchTimeout, f.config.Timeout)
		}
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			err = urlErr.Err
		}
		return "", fmt.Errorf("%w: %v", crawl.ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", &crawl.HTTPStatusError{Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return "", fmt.Errorf("%w: %q", crawl.ErrUnsupportedContentType, contentType)
	}

	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", crawl.ErrNetwork, err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", crawl.ErrNetwork, f.config.MaxBodySize)
	}

	return sanitizeHTML(string(htmlBytes))
}

// sanitizeHTML removes script, style, and noscript elements. The remaining
// markup is what the extraction engine receives.
func sanitizeHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: HTML parse failed: %v", crawl.ErrUnsupportedContentType, err)
	}

	doc.Find("script, style, noscript").Remove()

	sanitized, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: HTML render failed: %v", crawl.ErrUnsupportedContentType, err)
	}
	return sanitized, nil
}

// isHTMLContentType accepts text/html and application/xhtml+xml, with or
// without parameters. An absent header is accepted; some small sites omit it.
func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// classifyFetchError maps a fetch failure onto a metrics result label.
func classifyFetchError(err error) string {
	var statusErr *crawl.HTTPStatusError
	switch {
	case errors.Is(err, crawl.ErrFetchTimeout):
		return "timeout"
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.Is(err, crawl.ErrUnsupportedContentType):
		return "content_type"
	default:
		return "network"
	}
}
