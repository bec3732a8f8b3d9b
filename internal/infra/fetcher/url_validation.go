// Package fetcher provides the HTTP page fetcher used by the crawl pipeline.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"opportunity-scout/internal/usecase/crawl"
)

// validateURL validates a URL before making an HTTP request. It prevents
// Server-Side Request Forgery (SSRF) by checking the scheme, resolving DNS,
// and blocking loopback, private, and link-local addresses.
//
// Blocked IP ranges (when denyPrivateIPs is true):
//   - 127.0.0.0/8 (loopback), ::1
//   - 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, fc00::/7 (private)
//   - 169.254.0.0/16, fe80::/10 (link-local)
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", crawl.ErrNetwork, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", crawl.ErrNetwork, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", crawl.ErrNetwork)
	}

	if !denyPrivateIPs {
		return nil
	}

	// DNS resolution happens here instead of at request time so redirect
	// targets get the same check before any connection is made.
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", crawl.ErrNetwork, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", crawl.ErrNetwork, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP reports whether an IPv4/IPv6 address is loopback, private, or
// link-local.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return true
	}
	if ip.IsPrivate() {
		return true
	}
	if ip.IsLinkLocalUnicast() {
		return true
	}
	return false
}
