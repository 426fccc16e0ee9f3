// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the username search service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"footprint/internal/api/handler"
	"footprint/internal/config"
	"footprint/pkg/controller"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// SearchPath is the route of the username search endpoint.
const SearchPath = "/search-username"

// searchSpec contains the embedded OpenAPI specification of the search API.
//
//go:embed specs/search.yaml
var searchSpec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout bounds the handling of a single search request.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// RateLimit enables per-client rate limiting of searches when set.
	RateLimit *controller.RateLimitOptions
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	opts := Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimit = &controller.RateLimitOptions{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
			MaxClients:        cfg.RateLimit.MaxClients,
			TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
		}
	}

	return opts
}

type Deps struct {
	handler.Deps

	// Gatherer is the registry served at MetricsPath. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewMeterProvider creates an OpenTelemetry meter provider whose instruments
// are exported through reg.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - the username search endpoint, with CORS, optional rate limiting and a request timeout
// - Prometheus metrics endpoint (MetricsPath)
// - Embedded OpenAPI spec and Swagger UI
// - pprof endpoints for profiling
// Every route is wrapped with the access log middleware.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// specs file
	mux.HandleFunc("/specs/search.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(searchSpec)
	})
	// swagger playground
	mux.Handle("/docs/", v5emb.New(
		"Footprint",
		"/specs/search.yaml",
		"/docs/",
	))

	// search api
	var search http.Handler = handler.New(deps.Deps)
	if opts.RequestTimeout > 0 {
		search = controller.WithTimeout(opts.RequestTimeout)(search)
	}
	if opts.RateLimit != nil {
		limiter, err := controller.NewRateLimiter(*opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("could not create rate limiter: %w", err)
		}
		search = limiter.Middleware(search)
	}
	// cors outermost so that rejected and timed out requests carry the headers too
	mux.Handle(SearchPath, controller.WithCORS(search))

	// pprof
	mux.Handle("/debug/pprof/", controller.Pprof("/debug/pprof"))

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           controller.WithLogger(mux),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
