// Package sqltest opens migrated, throwaway SQLite databases for repository
// and service tests.
package sqltest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/server/migrations"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Open returns a fresh in-memory SQLite database with the schema applied.
// Each call gets its own database; it is closed when the test ends.
// goose keeps global state, so callers must not run Open from parallel tests.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	dialect, dir := migrations.Dialect(db.DriverName())
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpContext(context.Background(), db.DB, dir); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
