package domain

import (
	"net/url"
	"strings"
)

// Placeholder is the token in a Target URL template that is replaced by the
// probed identifier.
const Placeholder = "{}"

// Target is one external platform checked for the existence of a profile.
type Target struct {
	// ID is the platform name, e.g. "github.com".
	ID string `json:"id" yaml:"id"`
	// URLTemplate is the profile URL with a single Placeholder for the identifier.
	URLTemplate string `json:"url" yaml:"url"`
	// Category groups platforms for display purposes (tech, social, media, ...).
	Category string `json:"category,omitempty" yaml:"category"`
	// UsernamePattern optionally restricts which identifiers are valid on the
	// platform. Identifiers that do not match are reported as not found without
	// issuing a request.
	UsernamePattern string `json:"usernamePattern,omitempty" yaml:"usernamePattern"`
}

// ProfileURL substitutes the URL-escaped identifier into the template.
func (t Target) ProfileURL(identifier string) string {
	return strings.Replace(t.URLTemplate, Placeholder, url.PathEscape(identifier), 1)
}
