// Package httpclient builds the outbound HTTP clients used by providers,
// search and Telegram.
package httpclient

import (
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single outbound request.
const DefaultTimeout = 30 * time.Second

// New builds a client routed through proxyURL when it is set and parses.
func New(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
