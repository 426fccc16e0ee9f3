// Package httpx builds the HTTP client used to reach probed platforms.
package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultUserAgent is sent with every probe. Several platforms answer bare Go
// clients with 4xx pages regardless of whether the profile exists.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36" //nolint: lll

// DefaultMaxRedirects caps the redirect chain followed for a single probe.
const DefaultMaxRedirects = 5

// Doer lets callers accept *http.Client or a test double.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures NewClient.
type ClientConfig struct {
	// MaxRedirects is the number of redirects followed before the last 3xx
	// response is returned as-is. Zero means DefaultMaxRedirects; a negative
	// value disables redirect following entirely.
	MaxRedirects int
	// ProxyURL routes probes through an HTTP(S) or SOCKS5 proxy when set.
	ProxyURL string
	// DialTimeout bounds establishing a TCP connection.
	DialTimeout time.Duration
	// MaxIdleConnsPerHost bounds the idle pool kept per platform.
	MaxIdleConnsPerHost int
}

// RedirectPolicy returns a CheckRedirect function that stops after max hops and
// hands the last redirect response back to the caller instead of failing.
// A negative max never follows redirects.
func RedirectPolicy(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if maxRedirects < 0 || len(via) > maxRedirects {
			return http.ErrUseLastResponse
		}

		return nil
	}
}

// NewClient builds an *http.Client for probing. Per-request deadlines are set by
// the caller through the request context, so the client itself has no timeout.
func NewClient(cfg ClientConfig) (*http.Client, error) {
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 4
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.ProxyURL != "" {
		u, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse proxy url: %w", err)
		}

		switch u.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			d, err := proxy.FromURL(u, dialer)
			if err != nil {
				return nil, fmt.Errorf("could not create proxy dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = contextDialer(d)
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
	}

	return &http.Client{
		Transport:     transport,
		CheckRedirect: RedirectPolicy(cfg.MaxRedirects),
	}, nil
}

// contextDialer adapts a proxy.Dialer, preferring its context-aware variant.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
