package users

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

const userColumns = `id, first_name, last_name, email, mobile, password_hash, role, is_blocked,
	address, refresh_token, password_changed_at, password_reset_token, password_reset_expires,
	created_at, updated_at`

// SQLRepository implements Repository on PostgreSQL and SQLite. Queries use
// "?" placeholders rebound for the active driver.
type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now

	query := r.db.Rebind(
		`INSERT INTO users (id, first_name, last_name, email, mobile, password_hash, role, is_blocked, address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.Mobile, u.PasswordHash, u.Role, u.IsBlocked, u.Address, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify("create user", err)
	}

	return &u, nil
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "find user by email", `email = ?`, email)
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "find user by id", `id = ?`, id)
}

func (r *SQLRepository) findOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + where)

	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, arg); err != nil {
		return nil, dbx.Classify(op, err)
	}

	return user, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := r.db.SelectContext(ctx, &list, `SELECT `+userColumns+` FROM users ORDER BY created_at, email`); err != nil {
		return nil, dbx.Classify("list users", err)
	}
	return list, nil
}

func (r *SQLRepository) UpdateByID(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Mobile != nil {
		add("mobile", *patch.Mobile)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.IsBlocked != nil {
		add("is_blocked", *patch.IsBlocked)
	}
	add("updated_at", r.now())
	args = append(args, id)

	query := r.db.Rebind(`UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify("update user", err)
	}
	if err := dbx.AffectedOne("update user", res); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return dbx.Classify("delete user", err)
	}
	return dbx.AffectedOne("delete user", res)
}

func (r *SQLRepository) SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	query := r.db.Rebind(
		`UPDATE users SET password_hash = ?, password_changed_at = ?, refresh_token = NULL, updated_at = ?
		 WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, hash, changedAt, r.now(), id)
	if err != nil {
		return dbx.Classify("set password", err)
	}
	return dbx.AffectedOne("set password", res)
}

func (r *SQLRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET refresh_token = ? WHERE id = ?`), token, id)
	if err != nil {
		return dbx.Classify("set refresh token", err)
	}
	return dbx.AffectedOne("set refresh token", res)
}

func (r *SQLRepository) ReplaceRefreshToken(ctx context.Context, id, expected, next string) error {
	query := r.db.Rebind(`UPDATE users SET refresh_token = ? WHERE id = ? AND refresh_token = ?`)

	res, err := r.db.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		return dbx.Classify("replace refresh token", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify("replace refresh token", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}
	return nil
}

// ClearRefreshToken is idempotent: clearing an already empty token, or the
// token of a missing user, is not an error.
func (r *SQLRepository) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET refresh_token = NULL WHERE id = ?`), id)
	if err != nil {
		return dbx.Classify("clear refresh token", err)
	}
	return nil
}
