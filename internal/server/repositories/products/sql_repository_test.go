package products

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/sqltest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *SQLRepository, slug, category string, qty int) *models.Product {
	t.Helper()
	p, err := r.Create(context.Background(), &models.Product{
		Title: slug, Slug: slug, Price: 1999, Category: category, Brand: "acme", Quantity: qty,
	})
	require.NoError(t, err)
	return p
}

func TestList_FilterQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM products WHERE category = \$1 AND brand = \$2 ORDER BY`).
		WithArgs("phones", "acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSQLRepository(sqlx.NewDb(db, "pgx"))
	list, err := repo.List(context.Background(), Filter{Category: "phones", Brand: "acme"})
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ProductCRUD(t *testing.T) {
	repo := NewSQLRepository(sqltest.Open(t))
	ctx := context.Background()

	p := seed(t, repo, "phone-x", "phones", 5)
	seed(t, repo, "laptop-y", "laptops", 2)

	_, err := repo.Create(ctx, &models.Product{Title: "dup", Slug: "phone-x", Price: 1})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), got.Price)

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	phones, err := repo.List(ctx, Filter{Category: "phones"})
	require.NoError(t, err)
	require.Len(t, phones, 1)
	assert.Equal(t, "phone-x", phones[0].Slug)

	title := "Phone X"
	price := int64(2499)
	updated, err := repo.Update(ctx, p.ID, Patch{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Phone X", updated.Title)
	assert.Equal(t, int64(2499), updated.Price)

	_, err = repo.Update(ctx, "missing", Patch{Title: &title})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), common.ErrorNotFound)
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_RecordSale(t *testing.T) {
	repo := NewSQLRepository(sqltest.Open(t))
	ctx := context.Background()

	p := seed(t, repo, "mug", "kitchen", 3)

	require.NoError(t, repo.RecordSale(ctx, p.ID, 2))
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, 2, got.Sold)

	assert.ErrorIs(t, repo.RecordSale(ctx, p.ID, 2), common.ErrorValidation)
}
