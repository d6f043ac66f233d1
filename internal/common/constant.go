// Package common contains constants and small helpers shared by the client
// packages.
package common

import "time"

// Cookie names of the persisted token pair.
const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"
)

// Cookie lifetimes. The refresh keeper runs well inside AccessCookieTTL.
const (
	AccessCookieTTL  = 5 * time.Minute
	RefreshCookieTTL = 7 * 24 * time.Hour

	DefaultRefreshInterval = 240 * time.Second
)

// Outbound HTTP headers.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
