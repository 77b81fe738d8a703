// Package migrations holds the Postgres schema history.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registered set, keyed by file name.
var Migrations = migrate.NewMigrations() //nolint:gochecknoglobals // bun registry

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
