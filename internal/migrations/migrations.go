// Package migrations embeds the goose SQL migrations applied by cmd/migrate.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
