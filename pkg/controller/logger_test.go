package controller_test

import (
	"footprint/pkg/controller"
	"footprint/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		header     http.Header
		remoteAddr string
		want       string
	}{
		{"forwarded chain", http.Header{"X-Forwarded-For": {"1.2.3.4, 5.6.7.8"}}, "10.0.0.1:1", "1.2.3.4"},
		{"real ip", http.Header{"X-Real-Ip": {"9.8.7.6"}}, "10.0.0.1:1", "9.8.7.6"},
		{"remote addr", nil, "10.0.0.1:12345", "10.0.0.1"},
		{"unparsable remote addr", nil, "not-an-addr", "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search-username", nil)
			for k, v := range tt.header {
				req.Header[k] = v
			}
			req.RemoteAddr = tt.remoteAddr

			require.Equal(t, tt.want, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(controller.RequestIDKey).(string)
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("propagates caller request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/search-username", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rec := httptest.NewRecorder()

		controller.WithLogger(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "abc-123", seen)
		require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	})

	t.Run("generates request id", func(t *testing.T) {
		rec := httptest.NewRecorder()

		controller.WithLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search-username", nil))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotEmpty(t, seen)
		require.NotEqual(t, "abc-123", seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})
}
