// Package repomanager opens the SQL backend named by a connection string,
// applies the embedded goose migrations and vends repositories.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/migrations"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Driver names registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDSN = errors.New("unsupported connection string")

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// ParseDSN picks the database/sql driver for a connection string and returns
// the data source to hand to it.
//
//	postgres://..., postgresql://...   → pgx, unchanged
//	sqlite://path                      → sqlite, file:path
//	file:...                           → sqlite, unchanged
//	:memory:                           → sqlite, private shared-cache memory db
//
// SQLite sources get foreign keys and a busy timeout enabled.
func ParseDSN(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case dsn == ":memory:":
		source = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	case strings.HasPrefix(dsn, "sqlite://"):
		source = "file:" + strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "file:"):
		source = dsn
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}

	if source == "file:" {
		return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
	}

	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return DriverSQLite, source + sep + sqlitePragmas, nil
}

// SQLRepositoryManager serves both PostgreSQL and SQLite; repository SQL is
// rebound per driver.
type SQLRepositoryManager struct {
	db *sqlx.DB
}

// Open connects to the database named by dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one writer; also keeps a :memory: database alive
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return NewSQLRepositoryManager(db), nil
}

// NewSQLRepositoryManager wraps an already opened pool.
func NewSQLRepositoryManager(db *sqlx.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db}
}

func (m *SQLRepositoryManager) DB() *sqlx.DB { return m.db }

func (m *SQLRepositoryManager) Close() error { return m.db.Close() }

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Products returns a products.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewSQLRepository(db)
}

// Carts returns a carts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Carts(db dbx.DBTX) carts.Repository {
	return carts.NewSQLRepository(db)
}

// Orders returns an orders.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the active driver.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	dialect, dir := migrations.Dialect(m.db.DriverName())

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db.DB, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
