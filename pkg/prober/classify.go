package prober

import (
	"context"
	"errors"
	"net"

	"footprint/pkg/domain"
)

// ClassifyStatus maps an HTTP status code onto a probe status.
func (p Policy) ClassifyStatus(code int) domain.ProbeStatus {
	switch {
	case code >= 200 && code <= 299:
		return domain.ProbeStatusExists
	case code >= 300 && code <= 399 && p.RedirectExists:
		return domain.ProbeStatusExists
	default:
		return domain.ProbeStatusNotFound
	}
}

// ClassifyError maps a transport error onto TIMEOUT or NETWORK_ERROR. A
// cancelled or expired ctx counts as a timeout: the probe was abandoned, not
// refused.
func ClassifyError(ctx context.Context, err error) domain.ProbeStatus {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return domain.ProbeStatusTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ProbeStatusTimeout
	}

	return domain.ProbeStatusNetworkError
}
