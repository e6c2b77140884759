// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles an identity can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the persisted identity. PasswordHash and RefreshToken never leave
// the server: they are excluded from JSON and stripped by Public.
type User struct {
	ID                  string     `db:"id" json:"_id"`
	FirstName           string     `db:"first_name" json:"firstName"`
	LastName            string     `db:"last_name" json:"lastName"`
	Email               string     `db:"email" json:"email"`
	Mobile              string     `db:"mobile" json:"mobile"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                string     `db:"role" json:"role"`
	IsBlocked           bool       `db:"is_blocked" json:"isBlocked"`
	Address             string     `db:"address" json:"address"`
	RefreshToken        *string    `db:"refresh_token" json:"-"`
	PasswordChangedAt   *time.Time `db:"password_changed_at" json:"passwordChangedAt,omitempty"`
	PasswordResetToken  *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpiry *time.Time `db:"password_reset_expires" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Public returns a copy with credential material removed.
func (u *User) Public() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = nil
	c.PasswordResetToken = nil
	c.PasswordResetExpiry = nil
	return &c
}

// UserPatch lists the profile fields an update may change; nil fields are
// left as they are.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Mobile    *string
	Address   *string
	IsBlocked *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Mobile == nil && p.Address == nil && p.IsBlocked == nil
}
