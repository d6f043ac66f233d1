// Package migrations embeds the goose migrations for the local cookie
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
