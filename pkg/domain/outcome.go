package domain

import "time"

// ProbeStatus is the classified result of probing one target.
type ProbeStatus string

const (
	// ProbeStatusExists indicates the platform answered with a 2xx status.
	ProbeStatusExists ProbeStatus = "EXISTS"
	// ProbeStatusNotFound indicates the platform answered with any other status.
	ProbeStatusNotFound ProbeStatus = "NOT_FOUND"
	// ProbeStatusNetworkError indicates a transport failure (DNS, refused connection, TLS).
	ProbeStatusNetworkError ProbeStatus = "NETWORK_ERROR"
	// ProbeStatusTimeout indicates the probe did not complete within its deadline.
	ProbeStatusTimeout ProbeStatus = "TIMEOUT"
)

// Failed reports whether the status describes a probe that could not reach a verdict.
func (s ProbeStatus) Failed() bool {
	return s == ProbeStatusNetworkError || s == ProbeStatusTimeout
}

// ProbeOutcome is the result of a single existence check against one target.
// It is created once and never modified afterwards.
type ProbeOutcome struct {
	// Target is the probed platform.
	Target Target `json:"target"`
	// URL is the fully substituted profile URL.
	URL string `json:"url"`
	// Status is the classification of the network outcome.
	Status ProbeStatus `json:"status"`
	// StatusCode is the HTTP status received, zero when no response arrived.
	StatusCode int `json:"statusCode,omitempty"`
	// ErrorDetail describes the failure for NETWORK_ERROR and TIMEOUT outcomes.
	ErrorDetail string `json:"errorDetail,omitempty"`
	// Duration is how long the probe took.
	Duration time.Duration `json:"duration"`
}
