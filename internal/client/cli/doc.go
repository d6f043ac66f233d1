// Package cli provides the interactive terminal client for the translation
// agency backend.
//
// It wires configuration, the cookie store, the backend client, the session
// store and the services into a REPL. Typical flow: restore the persisted
// session, start the background token refresh, then execute user commands
// until "exit".
//
// Customer commands cover the account (register, verify, login, profile,
// password reset), orders, messages, the contact form and reviews. Staff
// commands, available after admin-login, cover orders, customers, contact
// requests, translations and the statistics dashboard.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, runREPL and command for details.
package cli
