// Package fakeapi is an in-memory stand-in for the agency backend.
//
// It serves the same REST contract as the real service (user, orders,
// messages, requests, admin-user and statistics routes), signs real HS256
// JWTs and answers errors in the backend's shapes ({detail}, {message},
// {code, message}, {errors: {field: [...]}}). Tests drive the client and the
// session store against it; cmd/fakeapi runs it standalone for local
// development.
//
// Failures can be scripted with FailNext, and request counters (Hits) let
// tests assert how often an endpoint was called.
package fakeapi
