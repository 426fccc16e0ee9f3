package controller_test

import (
	"footprint/pkg/controller"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, mock *clock.Mock, perMinute, burst int64, clients int) *controller.RateLimiter {
	t.Helper()

	l, err := controller.NewRateLimiter(controller.RateLimitOptions{
		RequestsPerMinute: perMinute,
		Burst:             burst,
		MaxClients:        clients,
		Clock:             mock,
	})
	require.NoError(t, err)

	return l
}

func TestNewRateLimiter_InvalidOptions(t *testing.T) {
	_, err := controller.NewRateLimiter(controller.RateLimitOptions{RequestsPerMinute: 0, Burst: 1})
	require.Error(t, err)
	_, err = controller.NewRateLimiter(controller.RateLimitOptions{RequestsPerMinute: 1, Burst: 0})
	require.Error(t, err)
}

func TestRateLimiter_Allow(t *testing.T) {
	mock := clock.NewMock()
	l := newLimiter(t, mock, 2, 2, 10)

	require.True(t, l.Allow("1.1.1.1"))
	require.True(t, l.Allow("1.1.1.1"))
	require.False(t, l.Allow("1.1.1.1"))

	// buckets are per client
	require.True(t, l.Allow("2.2.2.2"))

	mock.Add(time.Minute)
	require.True(t, l.Allow("1.1.1.1"))
}

func TestRateLimiter_EvictsLeastRecentClient(t *testing.T) {
	mock := clock.NewMock()
	l := newLimiter(t, mock, 1, 1, 1)

	require.True(t, l.Allow("1.1.1.1"))
	require.False(t, l.Allow("1.1.1.1"))

	// a second client evicts the first, which then starts with a full bucket
	require.True(t, l.Allow("2.2.2.2"))
	require.True(t, l.Allow("1.1.1.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := newLimiter(t, clock.NewMock(), 1, 1, 10)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/search-username", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec
	}

	require.Equal(t, http.StatusOK, send(http.MethodPost).Code)

	rec := send(http.MethodPost)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"rate limit exceeded","success":false}`, rec.Body.String())

	// preflight requests do not consume tokens
	require.Equal(t, http.StatusOK, send(http.MethodOptions).Code)
}

func TestRateLimiter_ForwardedHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	send := func(h http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/search-username", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec.Code
	}

	// spoofed headers do not buy extra tokens by default
	h := newLimiter(t, clock.NewMock(), 1, 1, 10).Middleware(ok)
	require.Equal(t, http.StatusOK, send(h, "1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, send(h, "2.2.2.2"))

	trusting, err := controller.NewRateLimiter(controller.RateLimitOptions{
		RequestsPerMinute: 1, Burst: 1, MaxClients: 10, TrustForwardedFor: true, Clock: clock.NewMock(),
	})
	require.NoError(t, err)
	h = trusting.Middleware(ok)
	require.Equal(t, http.StatusOK, send(h, "1.1.1.1"))
	require.Equal(t, http.StatusOK, send(h, "2.2.2.2"))
	require.Equal(t, http.StatusTooManyRequests, send(h, "1.1.1.1"))
}
