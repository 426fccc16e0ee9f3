package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, logging, the HTTP server, the
// probes sent to remote platforms, rate limiting and graceful shutdown.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Log configures the optional rotating log file. Logs always go to stderr.
	Log struct {
		// File is the path of the log file. Empty disables file logging.
		File string `env:"LOG_FILE" yaml:"file"`
		// MaxSizeMB is the size in megabytes after which the file is rotated
		MaxSizeMB int `env:"LOG_MAX_SIZE_MB" env-default:"100" yaml:"maxSizeMB"`
		// MaxBackups is the number of rotated files to keep
		MaxBackups int `env:"LOG_MAX_BACKUPS" env-default:"3" yaml:"maxBackups"`
		// MaxAgeDays is the number of days rotated files are kept
		MaxAgeDays int `env:"LOG_MAX_AGE_DAYS" env-default:"7" yaml:"maxAgeDays"`
	} `yaml:"log"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"1m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// It must exceed Probe.OverallTimeout or searches are cut off.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"20s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Probe configures the requests sent to remote platforms
	Probe struct {
		// PerProbeTimeout bounds a single request to one platform
		PerProbeTimeout time.Duration `env:"PROBE_PER_PROBE_TIMEOUT" env-default:"10s" yaml:"perProbeTimeout"`
		// OverallTimeout bounds a whole search; unfinished probes are reported as timed out
		OverallTimeout time.Duration `env:"PROBE_OVERALL_TIMEOUT" env-default:"15s" yaml:"overallTimeout"`
		// MaxRedirects caps followed redirects. Negative disables following.
		MaxRedirects int `env:"PROBE_MAX_REDIRECTS" env-default:"5" yaml:"maxRedirects"`
		// RedirectExists classifies the first 3xx response as an existing profile.
		// Redirects are never followed when it is set, whatever MaxRedirects says.
		RedirectExists bool `env:"PROBE_REDIRECT_EXISTS" env-default:"false" yaml:"redirectExists"`
		// UserAgent overrides the browser-like default user agent
		UserAgent string `env:"PROBE_USER_AGENT" yaml:"userAgent"`
		// ProxyURL routes probes through an http(s) or socks5 proxy
		ProxyURL string `env:"PROBE_PROXY_URL" yaml:"proxyURL"`
		// MaxInFlight bounds concurrent probes per search. Zero means unbounded.
		MaxInFlight int64 `env:"PROBE_MAX_IN_FLIGHT" env-default:"0" yaml:"maxInFlight"`
		// CatalogPath points to a YAML target catalog. Empty uses the built-in catalog.
		CatalogPath string `env:"PROBE_CATALOG_PATH" yaml:"catalogPath"`
	} `yaml:"probe"`

	// RateLimit configures the per-client request limit of the search endpoint
	RateLimit struct {
		// Enabled turns rate limiting on
		Enabled bool `env:"RATE_LIMIT_ENABLED" env-default:"false" yaml:"enabled"`
		// RequestsPerMinute is the sustained request rate of one client
		RequestsPerMinute int64 `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"10" yaml:"requestsPerMinute"`
		// Burst is the number of requests a client may send at once
		Burst int64 `env:"RATE_LIMIT_BURST" env-default:"10" yaml:"burst"`
		// MaxClients bounds the number of tracked clients
		MaxClients int `env:"RATE_LIMIT_MAX_CLIENTS" env-default:"10000" yaml:"maxClients"`
		// TrustForwardedFor identifies clients by forwarding headers; enable only behind a trusted proxy
		TrustForwardedFor bool `env:"RATE_LIMIT_TRUST_FORWARDED_FOR" env-default:"false" yaml:"trustForwardedFor"`
	} `yaml:"rateLimit"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"25s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: the config is then read from the environment.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(&cfg)
	case err != nil:
		return nil, fmt.Errorf("could not stat config: %w", err)
	default:
		err = cleanenv.ReadConfig(configPath, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
