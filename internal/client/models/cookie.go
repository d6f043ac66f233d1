package models

import "time"

const SameSiteStrict = "Strict"

// Cookie is a persisted client cookie with browser-like attributes.
type Cookie struct {
	Name      string
	Value     string
	ExpiresAt time.Time
	Secure    bool
	SameSite  string
	// Sealed marks Value as encrypted at rest.
	Sealed    bool
	UpdatedAt time.Time
}

// Expired reports whether the cookie is no longer readable at now.
func (c *Cookie) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
