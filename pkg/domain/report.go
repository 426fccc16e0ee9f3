package domain

// Report summarizes which targets yielded an existing profile for an identifier.
// FoundCount always equals len(Profiles).
type Report struct {
	// Identifier is the username as supplied by the caller.
	Identifier string `json:"username"`
	// FoundCount is the number of existing profiles.
	FoundCount int `json:"found_count"`
	// Profiles lists the URLs of existing profiles in registry order.
	Profiles []string `json:"profiles"`
	// Outcomes holds every per-target outcome in registry order.
	Outcomes []ProbeOutcome `json:"-"`
}
