package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL SQLSTATE codes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	pgStringTooLong        = "22001"
	pgNumericOutOfRange    = "22003"
	pgInvalidTextRepresent = "22P02"
)

// Classify maps a driver error onto the common error taxonomy:
//
//   - sql.ErrNoRows                    → common.ErrorNotFound
//   - unique / primary key violation   → common.ErrorAlreadyExists
//   - foreign key violation            → common.ErrorNotFound (referenced row missing)
//   - check violation                  → common.ErrorValidation
//   - malformed or out-of-range value  → common.ErrorValidation
//   - anything else                    → common.ErrorStoreUnavailable
//
// The driver error stays in the chain. nil stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorAlreadyExists, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorNotFound, err)
		case pgCheckViolation, pgStringTooLong, pgNumericOutOfRange, pgInvalidTextRepresent:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorValidation, err)
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorAlreadyExists, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorNotFound, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s: %w: %w", op, common.ErrorValidation, err)
		}
		// connections opened without extended result codes only report SQLITE_CONSTRAINT
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := err.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%s: %w: %w", op, common.ErrorAlreadyExists, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%s: %w: %w", op, common.ErrorNotFound, err)
			case strings.Contains(msg, "CHECK"):
				return fmt.Errorf("%s: %w: %w", op, common.ErrorValidation, err)
			}
		}
	}

	return fmt.Errorf("%s: %w: %w", op, common.ErrorStoreUnavailable, err)
}

// AffectedOne returns common.ErrorNotFound when res reports zero affected rows.
func AffectedOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return Classify(op, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
