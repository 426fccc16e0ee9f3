package serrors_test

import (
	"errors"
	"fmt"
	"footprint/pkg/serrors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrBadRequest,
		serrors.ErrMethodNotAllowed,
		serrors.ErrRateLimited,
		serrors.ErrTimeout,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("registry empty")

	e1 := serrors.With(serrors.ErrBadRequest, "username %q is invalid", " ")
	require.Equal(t, `username " " is invalid`, e1.Error())

	e2 := serrors.Wrap(serrors.ErrInternal, base, "loading targets")
	require.Equal(t, "loading targets: registry empty", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrTimeout)
	require.Equal(t, "TIMEOUT", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrInternal, base, "searching")

	require.ErrorIs(t, e, serrors.ErrInternal)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrBadRequest)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrRateLimited, base, "too fast")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrRateLimited, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrBadRequest, base, "bad body")
	require.Equal(t, serrors.ErrBadRequest, e.Kind())
	require.Equal(t, "bad body", e.Message())
	require.Equal(t, base, e.Cause())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", serrors.With(serrors.ErrBadRequest, "Username is required"), http.StatusBadRequest},
		{"wrapped bad request", fmt.Errorf("search: %w", serrors.KindOnly(serrors.ErrBadRequest)), http.StatusBadRequest},
		{"method", serrors.KindOnly(serrors.ErrMethodNotAllowed), http.StatusMethodNotAllowed},
		{"rate limited", serrors.KindOnly(serrors.ErrRateLimited), http.StatusTooManyRequests},
		{"timeout", serrors.KindOnly(serrors.ErrTimeout), http.StatusServiceUnavailable},
		{"internal", serrors.KindOnly(serrors.ErrInternal), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, serrors.StatusCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	require.Equal(t, "Username is required",
		serrors.PublicMessage(serrors.With(serrors.ErrBadRequest, "Username is required")))
	require.Equal(t, "no probe targets configured",
		serrors.PublicMessage(fmt.Errorf("search: %w",
			serrors.With(serrors.ErrInternal, "no probe targets configured"))))
	require.Equal(t, "RATE_LIMITED", serrors.PublicMessage(serrors.KindOnly(serrors.ErrRateLimited)))
	require.Equal(t, "internal error", serrors.PublicMessage(serrors.KindOnly(serrors.ErrInternal)))
	require.Equal(t, "internal error", serrors.PublicMessage(errors.New("dial tcp: secret host")))
}
