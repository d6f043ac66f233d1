// Package client contains the REST client for the translation agency
// backend and the local database bootstrap used by the terminal client.
//
// # Overview
//
// HTTPClient speaks JSON (and multipart/form-data for uploads) to the
// backend. For endpoints that require a session it reads the access token
// from a TokenSource, normally the cookie jar, and sends it as
// "Authorization: Bearer <access>". Every request carries a fresh
// X-Request-ID.
//
// # Error Handling
//
// Non-2xx responses are returned as *apierror.ResponseError with the raw
// body; transport failures as *apierror.NetworkError. Callers pass both
// through apierror.Normalize. A 401 on an authenticated request runs the
// refresh hook registered with OnUnauthorized and replays the request once
// with the renewed token. When the refresh fails or the replay is rejected
// again the expire hook runs, which the session store uses to log out.
// Authenticated requests fail with ErrNoTokenSource when no TokenSource
// was configured.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context; cancelling it aborts the request.
//
// See Also
//
//   - Client:     HTTPClient, New
//   - DB helpers: InitDatabase, RunMigrations
package client
