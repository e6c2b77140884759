package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/jmoiron/sqlx"
)

// RepositoryManager vends repositories bound either to the pool or to a
// transaction obtained through dbx.WithTx.
type RepositoryManager interface {
	DB() *sqlx.DB
	RunMigrations(ctx context.Context) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Carts(db dbx.DBTX) carts.Repository
	Orders(db dbx.DBTX) orders.Repository
	Close() error
}
