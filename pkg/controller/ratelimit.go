package controller

import (
	"fmt"
	"net/http"
	"time"

	"footprint/pkg/logger"
	"footprint/pkg/serrors"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
)

// RateLimitOptions configures per-client rate limiting.
type RateLimitOptions struct {
	// RequestsPerMinute is the number of tokens added to a client's bucket every minute.
	RequestsPerMinute int64
	// Burst is the bucket capacity.
	Burst int64
	// MaxClients bounds the number of buckets kept; the least recently seen
	// client is forgotten first.
	MaxClients int
	// TrustForwardedFor identifies clients by X-Forwarded-For / X-Real-IP.
	// Enable it only behind a proxy that overwrites these headers.
	TrustForwardedFor bool
	// Clock refills buckets. Nil means the wall clock.
	Clock clock.Clock
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	options RateLimitOptions
	buckets *lru.Cache[string, *ratelimit.Bucket]
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(options RateLimitOptions) (*RateLimiter, error) {
	if options.RequestsPerMinute <= 0 || options.Burst <= 0 {
		return nil, fmt.Errorf("requests per minute and burst must be positive")
	}
	if options.Clock == nil {
		options.Clock = clock.New()
	}

	buckets, err := lru.New[string, *ratelimit.Bucket](max(options.MaxClients, 1))
	if err != nil {
		return nil, fmt.Errorf("could not create bucket cache: %w", err)
	}

	return &RateLimiter{options: options, buckets: buckets}, nil
}

// Allow takes a token from client's bucket and reports whether one was available.
func (l *RateLimiter) Allow(client string) bool {
	bucket, ok := l.buckets.Get(client)
	if !ok {
		fresh := ratelimit.NewBucketWithQuantumAndClock(
			time.Minute, l.options.Burst, l.options.RequestsPerMinute, l.options.Clock)
		// another request of the same client may have raced us here
		if prev, found, _ := l.buckets.PeekOrAdd(client, fresh); found {
			bucket = prev
		} else {
			bucket = fresh
		}
	}

	return bucket.TakeAvailable(1) == 1
}

// Middleware rejects requests of clients that ran out of tokens with 429.
// Preflight requests are never counted.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)

			return
		}

		client := RemoteIP(r)
		if l.options.TrustForwardedFor {
			client = GetClientIP(r)
		}
		if !l.Allow(client) {
			logger.Warn(r.Context(), "rate limit exceeded", zap.String("client_ip", client))
			WriteError(w, serrors.With(serrors.ErrRateLimited, "rate limit exceeded"))

			return
		}

		next.ServeHTTP(w, r)
	})
}
