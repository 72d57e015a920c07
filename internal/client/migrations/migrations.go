// Package migrations embeds the goose migrations of the client-side session
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
