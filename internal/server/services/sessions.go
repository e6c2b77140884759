// Package services contains server-side business logic. This file implements
// SessionService, which owns the session-token lifecycle: registration,
// login, refresh-token rotation, logout, password change and request
// authentication.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
// with their expiry instants.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Session is the result of a successful login or refresh.
type Session struct {
	User   *models.User
	Tokens *TokenPair
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Length(0, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Mobile, validation.Length(0, 32)),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 72)),
	)
}

// SessionService implements the session state machine
// Anonymous → Authenticated → Refreshed → Revoked.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenIssuer
	logger      logging.Logger
	now         func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, logger logging.Logger) *SessionService {
	return &SessionService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "sessions"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account with the user role.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleUser)
}

// CreateAdmin creates an account with the admin role. It is not reachable
// from public registration.
func (s *SessionService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleAdmin)
}

func (s *SessionService) create(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).Create(ctx, &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       strings.TrimSpace(in.Mobile),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("email %s: %w", in.Email, common.ErrorAlreadyExists)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID, "role", role)
	return u.Public(), nil
}

// Login verifies credentials and starts a new session, replacing any refresh
// token stored for the account. A missing account and a wrong password both
// return common.ErrorInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

// LoginAdmin is Login restricted to accounts with the admin role.
func (s *SessionService) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		s.logger.Warn(ctx, "admin login by non-admin", "user_id", u.ID)
		return nil, common.ErrorNotAuthorized
	}
	return s.startSession(ctx, u)
}

func (s *SessionService) verifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.DB())

	u, err := repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, err
	}

	if u.IsBlocked {
		return nil, common.ErrorBlocked
	}

	if !s.hasher.CheckPassword(password, u.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return u, nil
}

func (s *SessionService) startSession(ctx context.Context, u *models.User) (*Session, error) {
	pair, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.Users(s.repomanager.DB()).SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		s.logger.Error(ctx, "persist refresh token failed", "user_id", u.ID, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "login succeeded", "user_id", u.ID)
	return &Session{User: u.Public(), Tokens: pair}, nil
}

// Refresh rotates a refresh token. The presented token must verify against
// the refresh secret and equal the stored token; the replacement is written
// with a compare-and-swap so that of two concurrent calls with the same token
// exactly one succeeds and the other gets common.ErrTokenRevoked.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.repomanager.DB())

	u, err := repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u.IsBlocked {
		return nil, common.ErrorBlocked
	}
	if u.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(refreshToken)) != 1 {
		s.logger.Warn(ctx, "stale refresh token presented", "user_id", u.ID)
		return nil, common.ErrTokenRevoked
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}

	if err := repo.ReplaceRefreshToken(ctx, u.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			s.logger.Warn(ctx, "refresh token rotated concurrently", "user_id", u.ID)
			return nil, common.ErrTokenRevoked
		}
		return nil, err
	}

	return &Session{User: u.Public(), Tokens: pair}, nil
}

// Logout clears the stored refresh token. Logging out twice is not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.repomanager.DB()).ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "logout", "user_id", userID)
	return nil
}

// LogoutByToken ends the session that owns refreshToken, if the token still
// verifies. Used when the caller has no valid access token.
func (s *SessionService) LogoutByToken(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if u.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(refreshToken)) != 1 {
		return nil
	}
	return s.Logout(ctx, u.ID)
}

// ChangePassword replaces the password hash and ends the current session.
func (s *SessionService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if err := validation.Validate(newPassword, validation.Required, validation.Length(6, 72)); err != nil {
		return fmt.Errorf("%w: password %v", common.ErrorValidation, err)
	}
	if err := checkID("user", userID); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	if err := s.repomanager.Users(s.repomanager.DB()).SetPassword(ctx, userID, hash, s.now()); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// Authenticate resolves an access token to the account it was issued for.
// It never writes to the store.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if u.IsBlocked {
		return nil, common.ErrorBlocked
	}

	return u.Public(), nil
}

func (s *SessionService) issuePair(u *models.User) (*TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
