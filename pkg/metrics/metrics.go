// Package metrics defines the OpenTelemetry instruments recorded by the prober.
// The instruments are exported to Prometheus by the API server's meter provider.
package metrics

import (
	"context"
	"fmt"
	"time"

	"footprint/pkg/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// MeterName is the instrumentation scope of every instrument in this package.
const MeterName = "footprint"

// Probes records per-target probe outcomes and per-search totals.
type Probes struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
	found    metric.Int64Histogram
	elapsed  metric.Float64Histogram
}

// NewProbes creates the probe instruments on the given meter provider.
func NewProbes(mp metric.MeterProvider) (*Probes, error) {
	meter := mp.Meter(MeterName)

	outcomes, err := meter.Int64Counter("footprint.probe.outcomes",
		metric.WithDescription("Number of probe outcomes by target and status"))
	if err != nil {
		return nil, fmt.Errorf("could not create outcomes counter: %w", err)
	}
	duration, err := meter.Float64Histogram("footprint.probe.duration",
		metric.WithDescription("Duration of a single probe"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}
	found, err := meter.Int64Histogram("footprint.search.found_profiles",
		metric.WithDescription("Number of existing profiles found per search"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8, 13))
	if err != nil {
		return nil, fmt.Errorf("could not create found profiles histogram: %w", err)
	}
	elapsed, err := meter.Float64Histogram("footprint.search.duration",
		metric.WithDescription("Duration of a whole search"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create search duration histogram: %w", err)
	}

	return &Probes{outcomes: outcomes, duration: duration, found: found, elapsed: elapsed}, nil
}

// NewNoopProbes returns instruments that record nothing. Useful in tests and CLI runs.
func NewNoopProbes() *Probes {
	p, _ := NewProbes(noop.NewMeterProvider())

	return p
}

// RecordOutcome records one settled probe.
func (p *Probes) RecordOutcome(ctx context.Context, o domain.ProbeOutcome) {
	target := attribute.String("target", o.Target.ID)
	p.outcomes.Add(ctx, 1, metric.WithAttributes(target, attribute.String("status", string(o.Status))))
	if o.Duration > 0 {
		p.duration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(target))
	}
}

// RecordSearch records the number of profiles found by one search and how long it took.
func (p *Probes) RecordSearch(ctx context.Context, found int, elapsed time.Duration) {
	p.found.Record(ctx, int64(found))
	p.elapsed.Record(ctx, elapsed.Seconds())
}
