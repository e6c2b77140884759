// Package common defines shared constants and sentinel errors used across
// the storefront server, its repositories and its transport layer. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorAlreadyExists    = errors.New("already exists")
	ErrorStoreUnavailable = errors.New("store unavailable")
	ErrVersionConflict    = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorBlocked            = errors.New("account is blocked")
	ErrorNotAuthorized      = errors.New("not authorized")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Token errors. Expired tokens can be refreshed, the others require a new login.
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenRevoked   = errors.New("token revoked")
)
