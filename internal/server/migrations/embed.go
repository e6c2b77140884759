// Package migrations embeds the goose SQL migrations, one directory per
// supported SQL dialect.
package migrations

import "embed"

// Migrations holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directory names inside Migrations.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

// Dialect returns the goose dialect and the migrations directory for a
// database/sql driver name ("pgx" or "sqlite").
func Dialect(driverName string) (dialect, dir string) {
	if driverName == "sqlite" {
		return "sqlite3", SQLiteDir
	}
	return "pgx", PostgresDir
}
