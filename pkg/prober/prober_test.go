package prober_test

import (
	"context"
	"errors"
	"footprint/pkg/domain"
	"footprint/pkg/httpx"
	"footprint/pkg/prober"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(code int) rtFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("page")),
			Request:    r,
		}, nil
	}
}

var github = domain.Target{ID: "github.com", URLTemplate: "https://github.com/{}"} //nolint: gochecknoglobals

func TestProbe_StatusClassification(t *testing.T) {
	tests := []struct {
		code   int
		policy prober.Policy
		want   domain.ProbeStatus
	}{
		{code: http.StatusOK, want: domain.ProbeStatusExists},
		{code: http.StatusNoContent, want: domain.ProbeStatusExists},
		{code: http.StatusMovedPermanently, want: domain.ProbeStatusNotFound},
		{code: http.StatusFound, policy: prober.Policy{RedirectExists: true}, want: domain.ProbeStatusExists},
		{code: http.StatusNotFound, want: domain.ProbeStatusNotFound},
		{code: http.StatusTooManyRequests, want: domain.ProbeStatusNotFound},
		{code: http.StatusInternalServerError, want: domain.ProbeStatusNotFound},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			p := prober.New(&http.Client{Transport: respond(tt.code)}, prober.Options{Policy: tt.policy})

			out := p.Probe(context.Background(), github, "octocat", time.Second)
			require.Equal(t, tt.want, out.Status)
			require.Equal(t, tt.code, out.StatusCode)
			require.Equal(t, "https://github.com/octocat", out.URL)
			require.Equal(t, github, out.Target)
			require.Empty(t, out.ErrorDetail)
		})
	}
}

func TestProbe_RequestShape(t *testing.T) {
	var got *http.Request
	c := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		got = r

		return respond(http.StatusOK)(r)
	})}

	prober.New(c, prober.Options{UserAgent: "footprint-test"}).
		Probe(context.Background(), github, "john doe/x", time.Second)

	require.NotNil(t, got)
	require.Equal(t, http.MethodGet, got.Method)
	require.Equal(t, "footprint-test", got.Header.Get("User-Agent"))
	require.Equal(t, "/john%20doe%2Fx", got.URL.EscapedPath(), "identifier is path-escaped")
}

func TestProbe_DefaultUserAgent(t *testing.T) {
	var ua string
	c := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		ua = r.Header.Get("User-Agent")

		return respond(http.StatusOK)(r)
	})}

	prober.New(c, prober.Options{}).Probe(context.Background(), github, "octocat", 0)
	require.Equal(t, httpx.DefaultUserAgent, ua)
}

func TestProbe_NetworkError(t *testing.T) {
	// grab a free port and close it so the connection is refused
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	target := domain.Target{ID: "closed", URLTemplate: "http://" + addr + "/{}"}
	p := prober.New(&http.Client{}, prober.Options{})

	out := p.Probe(context.Background(), target, "octocat", time.Second)
	require.Equal(t, domain.ProbeStatusNetworkError, out.Status)
	require.Zero(t, out.StatusCode)
	require.NotEmpty(t, out.ErrorDetail)
}

func TestProbe_TransportErrorIsData(t *testing.T) {
	c := &http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("tls: handshake failure")
	})}

	out := prober.New(c, prober.Options{}).Probe(context.Background(), github, "octocat", time.Second)
	require.Equal(t, domain.ProbeStatusNetworkError, out.Status)
	require.Contains(t, out.ErrorDetail, "handshake failure")
}

func TestProbe_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	target := domain.Target{ID: "slow", URLTemplate: srv.URL + "/{}"}
	out := prober.New(srv.Client(), prober.Options{}).Probe(context.Background(), target, "octocat", 50*time.Millisecond)

	require.Equal(t, domain.ProbeStatusTimeout, out.Status)
	require.NotEmpty(t, out.ErrorDetail)
	require.Less(t, out.Duration, 2*time.Second)
}

func TestProbe_CancelledContextIsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	})}

	out := prober.New(c, prober.Options{}).Probe(ctx, github, "octocat", time.Second)
	require.Equal(t, domain.ProbeStatusTimeout, out.Status)
}

func TestSkip(t *testing.T) {
	out := prober.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("skip must not send requests")

		return nil, nil
	})}, prober.Options{}).Skip(github, "octocat")

	require.Equal(t, domain.ProbeStatusNotFound, out.Status)
	require.Equal(t, "https://github.com/octocat", out.URL)
}

func TestClassifyError(t *testing.T) {
	ctx := context.Background()

	require.Equal(t, domain.ProbeStatusTimeout, prober.ClassifyError(ctx, context.DeadlineExceeded))
	require.Equal(t, domain.ProbeStatusTimeout, prober.ClassifyError(ctx, &net.DNSError{IsTimeout: true}))
	require.Equal(t, domain.ProbeStatusNetworkError, prober.ClassifyError(ctx, &net.DNSError{IsNotFound: true}))
	require.Equal(t, domain.ProbeStatusNetworkError, prober.ClassifyError(ctx, errors.New("connection refused")))
}
