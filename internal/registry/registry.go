// Package registry holds the ordered catalog of platforms probed for a
// username. A Registry is built once at start-up and is read-only afterwards,
// so it is safe for concurrent use.
package registry

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"footprint/pkg/domain"

	"github.com/dlclark/regexp2"
	"go.uber.org/multierr"
)

// sampleIdentifier is substituted into templates to validate them.
const sampleIdentifier = "footprint"

// PatternMatchTimeout bounds a single username pattern evaluation. Patterns
// come from the catalog file and may backtrack badly on crafted input.
const PatternMatchTimeout = 100 * time.Millisecond

// Registry is an immutable, ordered list of probe targets.
type Registry struct {
	targets  []domain.Target
	patterns map[string]*regexp2.Regexp
}

// New validates the given targets and returns a Registry preserving their
// order. All validation problems are reported together.
func New(targets ...domain.Target) (*Registry, error) {
	r := &Registry{
		targets:  make([]domain.Target, 0, len(targets)),
		patterns: make(map[string]*regexp2.Regexp),
	}

	var errs error
	seen := make(map[string]struct{}, len(targets))
	for i, t := range targets {
		if err := validate(t); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("target #%d (%q): %w", i, t.ID, err))

			continue
		}
		if _, dup := seen[t.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("target #%d: duplicate id %q", i, t.ID))

			continue
		}
		seen[t.ID] = struct{}{}

		if t.UsernamePattern != "" {
			re, err := regexp2.Compile(t.UsernamePattern, regexp2.None)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("target #%d (%q): invalid username pattern: %w", i, t.ID, err))

				continue
			}
			re.MatchTimeout = PatternMatchTimeout
			r.patterns[t.ID] = re
		}

		r.targets = append(r.targets, t)
	}
	if errs != nil {
		return nil, errs
	}

	return r, nil
}

func validate(t domain.Target) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if n := strings.Count(t.URLTemplate, domain.Placeholder); n != 1 {
		return fmt.Errorf("url template must contain exactly one %s placeholder, found %d", domain.Placeholder, n)
	}

	u, err := url.Parse(t.ProfileURL(sampleIdentifier))
	if err != nil {
		return fmt.Errorf("invalid url template: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url template must be an absolute http(s) URL")
	}

	return nil
}

// List returns the targets in registry order. The returned slice is a copy.
func (r *Registry) List() []domain.Target {
	out := make([]domain.Target, len(r.targets))
	copy(out, r.targets)

	return out
}

// Len returns the number of targets.
func (r *Registry) Len() int { return len(r.targets) }

// Matches reports whether identifier is acceptable for target according to its
// username pattern. Targets without a pattern accept every identifier.
func (r *Registry) Matches(target domain.Target, identifier string) bool {
	re, ok := r.patterns[target.ID]
	if !ok {
		return true
	}

	matched, err := re.MatchString(identifier)

	return err == nil && matched
}
