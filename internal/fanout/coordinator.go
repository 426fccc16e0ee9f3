// Package fanout probes every registry target concurrently and collects one
// outcome per target in registry order.
//
// # Slots
//
// Run owns a fixed slot per target, indexed by the target's registry position.
// Each probe goroutine writes only its own slot and then reports its index on a
// buffered channel with one place per target. The channel send establishes the
// happens-before edge for the slot write, so slots are read without a lock, and
// only for indices that were received.
//
// # Deadline
//
// The overall timeout is a deadline on collecting, not a hard kill. Slots that
// have not reported when it fires are returned as TIMEOUT outcomes, the
// per-request context is cancelled so in-flight requests abort, and late
// goroutines finish writing to slots that are never read again. Because the
// channel is buffered to N, no goroutine ever blocks after the deadline.
//
// Targets are expected to be in the tens; one goroutine per target is started
// unless MaxInFlight bounds the number of concurrent probes.
package fanout

import (
	"context"
	"fmt"
	"time"

	"footprint/pkg/domain"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

// DeadlineExceeded is the error detail of outcomes synthesized for probes that
// missed the overall deadline.
const DeadlineExceeded = "overall deadline exceeded"

// Prober performs one existence check. Implementations must not panic and must
// report every failure in the returned outcome.
type Prober interface {
	Probe(ctx context.Context, target domain.Target, identifier string, timeout time.Duration) domain.ProbeOutcome
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, target domain.Target, identifier string, timeout time.Duration) domain.ProbeOutcome

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, target domain.Target, identifier string, timeout time.Duration) domain.ProbeOutcome {
	return f(ctx, target, identifier, timeout)
}

// Options configures a Coordinator.
type Options struct {
	// MaxInFlight bounds concurrent probes per Run. Zero means one per target.
	MaxInFlight int64
	// Clock drives the overall deadline. Nil means the wall clock.
	Clock clock.Clock
	// Tracer records one span per probe. Nil means the global tracer provider.
	Tracer trace.Tracer
}

// Coordinator fans a search out to every target. It keeps no per-request state
// and is safe for concurrent use.
type Coordinator struct {
	prober  Prober
	options Options
}

// New creates a Coordinator issuing probes through prober.
func New(prober Prober, options Options) *Coordinator {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	if options.Tracer == nil {
		options.Tracer = otel.Tracer("footprint/fanout")
	}

	return &Coordinator{
		prober:  prober,
		options: options,
	}
}

// Run probes identifier on every target and returns exactly one outcome per
// target, in the order of targets. Each probe is limited to perProbeTimeout;
// collection stops after overallTimeout (when positive) or when ctx is done,
// and unsettled targets are reported as TIMEOUT.
func (c *Coordinator) Run(
	ctx context.Context,
	identifier string,
	targets []domain.Target,
	perProbeTimeout, overallTimeout time.Duration,
) []domain.ProbeOutcome {
	n := len(targets)
	if n == 0 {
		return []domain.ProbeOutcome{}
	}

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sem *semaphore.Weighted
	if c.options.MaxInFlight > 0 && c.options.MaxInFlight < int64(n) {
		sem = semaphore.NewWeighted(c.options.MaxInFlight)
	}

	slots := make([]domain.ProbeOutcome, n)
	settled := make(chan int, n)
	for i := range targets {
		go func(i int) {
			slots[i] = c.probe(probeCtx, sem, targets[i], identifier, perProbeTimeout)
			settled <- i
		}(i)
	}

	var deadline <-chan time.Time
	if overallTimeout > 0 {
		timer := c.options.Clock.Timer(overallTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	done := make([]bool, n)
collect:
	for remaining := n; remaining > 0; remaining-- {
		select {
		case i := <-settled:
			done[i] = true
		case <-deadline:
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	out := make([]domain.ProbeOutcome, n)
	for i, target := range targets {
		if done[i] {
			out[i] = slots[i]

			continue
		}
		out[i] = domain.ProbeOutcome{
			Target:      target,
			URL:         target.ProfileURL(identifier),
			Status:      domain.ProbeStatusTimeout,
			ErrorDetail: DeadlineExceeded,
		}
	}

	return out
}

// probe runs a single probe inside a span, waiting for a semaphore slot first
// when in-flight probes are bounded. A panicking prober yields NETWORK_ERROR.
func (c *Coordinator) probe(
	ctx context.Context,
	sem *semaphore.Weighted,
	target domain.Target,
	identifier string,
	timeout time.Duration,
) (outcome domain.ProbeOutcome) {
	ctx, span := c.options.Tracer.Start(ctx, "probe", trace.WithAttributes(
		attribute.String("footprint.target", target.ID)))
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			outcome = domain.ProbeOutcome{
				Target:      target,
				URL:         target.ProfileURL(identifier),
				Status:      domain.ProbeStatusNetworkError,
				ErrorDetail: fmt.Sprintf("probe panicked: %v", p),
			}
			span.SetStatus(codes.Error, outcome.ErrorDetail)
		}
	}()

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			span.SetStatus(codes.Error, err.Error())

			return domain.ProbeOutcome{
				Target:      target,
				URL:         target.ProfileURL(identifier),
				Status:      domain.ProbeStatusTimeout,
				ErrorDetail: err.Error(),
			}
		}
		defer sem.Release(1)
	}

	outcome = c.prober.Probe(ctx, target, identifier, timeout)
	span.SetAttributes(
		attribute.String("footprint.status", string(outcome.Status)),
		attribute.Int("http.response.status_code", outcome.StatusCode))
	if outcome.Status.Failed() {
		span.SetStatus(codes.Error, outcome.ErrorDetail)
	}

	return outcome
}
