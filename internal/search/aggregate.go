package search

import (
	"footprint/pkg/domain"

	"github.com/samber/lo"
)

// Aggregate builds the report for identifier from outcomes given in registry
// order. Only EXISTS outcomes contribute profiles.
func Aggregate(identifier string, outcomes []domain.ProbeOutcome) domain.Report {
	profiles := lo.FilterMap(outcomes, func(o domain.ProbeOutcome, _ int) (string, bool) {
		return o.URL, o.Status == domain.ProbeStatusExists
	})
	if profiles == nil {
		profiles = []string{}
	}

	return domain.Report{
		Identifier: identifier,
		FoundCount: len(profiles),
		Profiles:   profiles,
		Outcomes:   outcomes,
	}
}
