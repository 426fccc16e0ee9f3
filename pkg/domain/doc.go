// Package domain contains the core domain entities used by the prober: probe
// targets, per-target probe outcomes and the aggregated report. These types are
// free of infrastructure concerns so they can be shared across packages.
package domain
