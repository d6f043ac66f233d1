// Package apierror turns any failure observed while talking to the backend
// into a single error shape, Response.
//
// # Overview
//
// Normalize is total: it accepts nil, strings, errors, decoded JSON maps and
// arbitrary values, never panics, and always returns a Response whose Code
// is populated. Classification runs in a fixed order and the first match
// wins:
//
//  1. values that already are a Response (or a map with that shape)
//  2. context cancellation
//  3. HTTP responses with a non-2xx status (ResponseError)
//  4. transport failures without a response (NetworkError, *url.Error)
//  5. values carrying a status (a map with "status" or a StatusCode() method)
//  6. connection-refused and timeout heuristics
//  7. everything else, reported as unknown_error
//
// # Error Handling
//
// Response implements error, so callers can return it directly and match it
// later with As, HasCode or IsUnauthorized.
package apierror
