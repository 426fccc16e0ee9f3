// Package prober performs a single HTTP existence check for a username on one
// platform and classifies the outcome. Failures are reported as data in the
// returned domain.ProbeOutcome; Probe never returns an error.
package prober

import (
	"context"
	"io"
	"net/http"
	"time"

	"footprint/pkg/domain"
	"footprint/pkg/httpx"
)

// maxDrainBytes bounds how much of a response body is read before closing, so
// keep-alive connections can be reused without downloading whole pages.
const maxDrainBytes = 4 << 10

// Policy controls how HTTP responses are classified.
type Policy struct {
	// RedirectExists classifies a 3xx response as EXISTS instead of NOT_FOUND.
	// It only has an effect when the client hands 3xx responses back, so
	// clients paired with it should not follow redirects.
	RedirectExists bool
}

// Options configures a Prober.
type Options struct {
	// UserAgent is sent with every probe. Empty means httpx.DefaultUserAgent.
	UserAgent string
	// Policy is the response classification policy.
	Policy Policy
}

// Prober issues existence checks. It holds no per-request state and is safe for
// concurrent use.
type Prober struct {
	client  httpx.Doer
	options Options
}

// New creates a Prober sending requests through client.
func New(client httpx.Doer, options Options) *Prober {
	if options.UserAgent == "" {
		options.UserAgent = httpx.DefaultUserAgent
	}

	return &Prober{
		client:  client,
		options: options,
	}
}

// Probe checks whether a profile for identifier exists on target. The request is
// bounded by timeout (when positive) and by ctx.
func (p *Prober) Probe(ctx context.Context, target domain.Target, identifier string, timeout time.Duration) domain.ProbeOutcome {
	start := time.Now()
	outcome := domain.ProbeOutcome{
		Target: target,
		URL:    target.ProfileURL(identifier),
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outcome.URL, nil)
	if err != nil {
		outcome.Status = domain.ProbeStatusNetworkError
		outcome.ErrorDetail = err.Error()
		outcome.Duration = time.Since(start)

		return outcome
	}
	req.Header.Set("User-Agent", p.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Status = ClassifyError(ctx, err)
		outcome.ErrorDetail = err.Error()

		return outcome
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
	}()

	outcome.StatusCode = resp.StatusCode
	outcome.Status = p.options.Policy.ClassifyStatus(resp.StatusCode)

	return outcome
}

// Skip returns the NOT_FOUND outcome for a target whose username rules reject
// identifier, without touching the network.
func (p *Prober) Skip(target domain.Target, identifier string) domain.ProbeOutcome {
	return domain.ProbeOutcome{
		Target: target,
		URL:    target.ProfileURL(identifier),
		Status: domain.ProbeStatusNotFound,
	}
}
