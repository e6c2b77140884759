package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ProfileInput carries a partial profile update; nil fields are kept.
type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Mobile    *string `json:"mobile"`
}

func (in ProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Length(0, 100)),
		validation.Field(&in.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&in.Mobile, validation.Length(0, 32)),
	)
}

// UserService covers account management beyond the session lifecycle:
// profile edits for the owner and block/unblock/delete for admins.
type UserService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{repomanager: m, logger: logger.With("module", "users")}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	u, err := s.repomanager.Users(s.repomanager.DB()).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.repomanager.DB()).List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.User, len(list))
	for i := range list {
		out[i] = list[i].Public()
	}
	return out, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).UpdateByID(ctx, userID, models.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Mobile:    in.Mobile,
	})
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *UserService) SaveAddress(ctx context.Context, userID, address string) (*models.User, error) {
	address = strings.TrimSpace(address)
	if err := validation.Validate(address, validation.Required, validation.Length(1, 500)); err != nil {
		return nil, fmt.Errorf("%w: address %v", common.ErrorValidation, err)
	}
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).UpdateByID(ctx, userID, models.UserPatch{Address: &address})
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// Block marks the account blocked and ends its session in one transaction.
func (s *UserService) Block(ctx context.Context, userID string) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	blocked := true
	err := dbx.WithTx(ctx, s.repomanager.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.UpdateByID(ctx, userID, models.UserPatch{IsBlocked: &blocked}); err != nil {
			return err
		}
		return repo.ClearRefreshToken(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user blocked", "user_id", userID)
	return nil
}

func (s *UserService) Unblock(ctx context.Context, userID string) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	blocked := false
	if _, err := s.repomanager.Users(s.repomanager.DB()).UpdateByID(ctx, userID, models.UserPatch{IsBlocked: &blocked}); err != nil {
		return err
	}

	s.logger.Info(ctx, "user unblocked", "user_id", userID)
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	if err := s.repomanager.Users(s.repomanager.DB()).DeleteByID(ctx, userID); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", userID)
	return nil
}
