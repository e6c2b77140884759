package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Postgres(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{pgUniqueViolation, common.ErrorAlreadyExists},
		{pgForeignKeyViolation, common.ErrorNotFound},
		{pgCheckViolation, common.ErrorValidation},
		{pgInvalidTextRepresent, common.ErrorValidation},
		{pgNumericOutOfRange, common.ErrorValidation},
		{pgStringTooLong, common.ErrorValidation},
		{"08006", common.ErrorStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := Classify("op", &pgconn.PgError{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
			if tt.want != common.ErrorStoreUnavailable {
				assert.NotErrorIs(t, err, common.ErrorStoreUnavailable)
			}
		})
	}
}

func TestClassify_SQLite(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE u (email TEXT UNIQUE, n INTEGER CHECK (n > 0))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO u(email, n) VALUES ('a@b.c', 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO u(email, n) VALUES ('a@b.c', 2)`)
	assert.ErrorIs(t, Classify("insert", err), common.ErrorAlreadyExists)

	_, err = db.ExecContext(ctx, `INSERT INTO u(email, n) VALUES ('x@y.z', 0)`)
	assert.ErrorIs(t, Classify("insert", err), common.ErrorValidation)
}

func TestClassify_Other(t *testing.T) {
	assert.NoError(t, Classify("op", nil))
	assert.Equal(t, common.ErrorNotFound, Classify("op", sql.ErrNoRows))

	boom := errors.New("conn reset")
	err := Classify("op", boom)
	assert.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "op")
}

func TestAffectedOne(t *testing.T) {
	assert.NoError(t, AffectedOne("op", sqlmock.NewResult(0, 1)))
	assert.Equal(t, common.ErrorNotFound, AffectedOne("op", sqlmock.NewResult(0, 0)))
	assert.ErrorIs(t, AffectedOne("op", sqlmock.NewErrorResult(errors.New("x"))), common.ErrorStoreUnavailable)
}
