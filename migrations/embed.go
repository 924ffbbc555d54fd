// Package migrations embeds the goose SQL migrations for the users, items,
// and bookings tables. cmd/api applies them when MIGRATE_ON_START is set,
// and the repo integration tests apply them in TestMain.
package migrations

import "embed"

// FS holds the *.sql migration files, ordered by their numeric prefix.
//
//go:embed *.sql
var FS embed.FS
