// Package search answers "where does this username exist?" by fanning a probe
// out to every registry target and aggregating the outcomes into a report.
package search

import (
	"context"
	"strings"
	"time"

	"footprint/internal/config"
	"footprint/internal/fanout"
	"footprint/internal/registry"
	"footprint/pkg/domain"
	"footprint/pkg/logger"
	"footprint/pkg/metrics"
	"footprint/pkg/serrors"

	"go.uber.org/zap"
)

// Prober checks a single target. Skip reports NOT_FOUND for targets whose
// username rules reject the identifier without sending a request.
type Prober interface {
	fanout.Prober
	Skip(target domain.Target, identifier string) domain.ProbeOutcome
}

// Options configure the time budget of a search.
type Options struct {
	// PerProbeTimeout bounds a single request to one target.
	PerProbeTimeout time.Duration
	// OverallTimeout bounds the whole fan-out. Targets still running when it
	// expires are reported as TIMEOUT.
	OverallTimeout time.Duration
	// MaxInFlight bounds concurrent probes per search. Zero means unbounded.
	MaxInFlight int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PerProbeTimeout: cfg.Probe.PerProbeTimeout,
		OverallTimeout:  cfg.Probe.OverallTimeout,
		MaxInFlight:     cfg.Probe.MaxInFlight,
	}
}

type searcher struct {
	options     Options
	registry    *registry.Registry
	prober      Prober
	coordinator *fanout.Coordinator
	metrics     *metrics.Probes
}

// Search probes identifier on every registered target. A blank identifier is a
// bad request; per-target failures never fail the search.
func (s *searcher) Search(ctx context.Context, identifier string) (*domain.Report, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "Username is required")
	}

	targets := s.registry.List()
	if len(targets) == 0 {
		return nil, serrors.With(serrors.ErrInternal, "no probe targets configured")
	}

	ctx = logger.WithFields(ctx, zap.String("username", identifier))
	start := time.Now()
	outcomes := s.coordinator.Run(ctx, identifier, targets, s.options.PerProbeTimeout, s.options.OverallTimeout)
	elapsed := time.Since(start)

	for _, o := range outcomes {
		s.metrics.RecordOutcome(ctx, o)
		if o.Status.Failed() {
			logger.Warn(ctx, "probe failed",
				zap.String("target", o.Target.ID),
				zap.String("status", string(o.Status)),
				zap.String("error", o.ErrorDetail),
				zap.Duration("duration", o.Duration))
		}
	}

	report := Aggregate(identifier, outcomes)
	s.metrics.RecordSearch(ctx, report.FoundCount, elapsed)
	logger.Info(ctx, "search finished",
		zap.Int("targets", len(targets)),
		zap.Int("found", report.FoundCount),
		zap.Duration("elapsed", elapsed))

	return &report, nil
}

// gate skips targets whose username pattern rejects the identifier.
func (s *searcher) gate(ctx context.Context, target domain.Target, identifier string, timeout time.Duration) domain.ProbeOutcome {
	if !s.registry.Matches(target, identifier) {
		return s.prober.Skip(target, identifier)
	}

	return s.prober.Probe(ctx, target, identifier, timeout)
}

// New creates a Searcher over the targets of reg. A nil m records nothing.
func New(reg *registry.Registry, prober Prober, m *metrics.Probes, options Options) Searcher {
	if m == nil {
		m = metrics.NewNoopProbes()
	}

	s := &searcher{
		options:  options,
		registry: reg,
		prober:   prober,
		metrics:  m,
	}
	s.coordinator = fanout.New(fanout.ProberFunc(s.gate), fanout.Options{MaxInFlight: options.MaxInFlight})

	return s
}
