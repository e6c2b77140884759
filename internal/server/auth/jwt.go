// Package auth holds the credential primitives of the server: bcrypt password
// hashing, JWT access/refresh token issuing and verification, and the
// request-context helpers for the authenticated user.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "storefront"

var (
	ErrEmptySecret = errors.New("token secret must not be empty")
	ErrSameSecrets = errors.New("access and refresh token secrets must differ")
)

// AccessClaims is carried by access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"_id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// RefreshClaims is carried by refresh tokens.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
}

// TokenIssuer mints and verifies HS256 tokens. Access and refresh tokens
// are signed with different secrets, so one kind never verifies as the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock overrides the time source used for iat/exp and verification.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...IssuerOption) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrEmptySecret
	}
	if accessSecret == refreshSecret {
		return nil, ErrSameSecrets
	}

	i := &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *TokenIssuer) registered(userID string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// IssueAccess returns a signed access token for u and its expiry.
func (i *TokenIssuer) IssueAccess(u *models.User) (string, time.Time, error) {
	claims := AccessClaims{
		RegisteredClaims: i.registered(u.ID, i.accessTTL),
		UserID:           u.ID,
		FirstName:        u.FirstName,
		Email:            u.Email,
		Role:             u.Role,
	}
	return sign(claims, i.accessSecret, claims.ExpiresAt.Time)
}

// IssueRefresh returns a signed refresh token for u and its expiry.
func (i *TokenIssuer) IssueRefresh(u *models.User) (string, time.Time, error) {
	claims := RefreshClaims{
		RegisteredClaims: i.registered(u.ID, i.refreshTTL),
		UserID:           u.ID,
	}
	return sign(claims, i.refreshSecret, claims.ExpiresAt.Time)
}

func sign(claims jwt.Claims, secret []byte, exp time.Time) (string, time.Time, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// VerifyAccess checks signature and expiry of an access token.
// Errors are common.ErrTokenMalformed, common.ErrTokenExpired or
// common.ErrInvalidToken.
func (i *TokenIssuer) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(token, claims, i.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh checks signature and expiry of a refresh token.
func (i *TokenIssuer) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, claims, i.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return classify(err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return common.ErrInvalidToken
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrInvalidToken
	}
}
