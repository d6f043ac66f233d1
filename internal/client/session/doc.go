// Package session holds the client's authentication state.
//
// A Store owns the token pair, the identity decoded from the access token,
// the fetched profile and the loading/error flags of the initial auth check
// and of the profile fetch. It is constructed explicitly and passed to the
// components that need it; there is no package-level instance.
//
// The decoded identity comes from an unverified JWT and is only suitable for
// display. Authorization is always decided by the backend.
//
// Every operation that talks to the backend returns failures as
// *apierror.Response, except the local preconditions ErrRefreshTokenNotFound
// and ErrInvalidToken.
package session
