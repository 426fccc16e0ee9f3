package controller_test

import (
	"footprint/pkg/controller"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPprof_Index(t *testing.T) {
	h := controller.Pprof("/debug/pprof")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestPprof_NamedProfileUnderCustomPrefix(t *testing.T) {
	h := controller.Pprof("/internal/profiling/")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/profiling/goroutine?debug=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "goroutine")
}

func TestPprof_Cmdline(t *testing.T) {
	h := controller.Pprof("/debug/pprof")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
