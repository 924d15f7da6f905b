// Package users registers and authenticates accounts and mints their access
// tokens.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/cryptox"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/auth"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
	userrepo "github.com/dmitrijs2005/expensetracker/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Account is a user together with a freshly minted access token.
type Account struct {
	User  *models.User
	Token string
}

type Service struct {
	repo                        userrepo.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
	now                         func() time.Time
}

func NewService(repo userrepo.Repository, jwtSecret []byte, tokenValidity time.Duration, logger logging.Logger) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   jwtSecret,
		accessTokenValidityDuration: tokenValidity,
		logger:                      logger.With(logging.FieldModule, "users"),
		now:                         time.Now,
	}
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrInvalidArgument)
	}
	return nil
}

// Register creates a non-premium user and logs it in.
func (s *Service) Register(ctx context.Context, username, password string) (*Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		PasswordHash: cryptox.HashPassword(password),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", logging.FieldError, err)
		return nil, common.ErrInternal
	}
	s.logger.Info(ctx, "user registered", logging.FieldUserID, user.ID)

	return s.issue(user)
}

// Login checks the password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		s.logger.Error(ctx, "error loading user", logging.FieldError, err)
		return nil, common.ErrInternal
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", logging.FieldUserID, user.ID, logging.FieldError, err)
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrUnauthorized
	}

	return s.issue(user)
}

// SetPremium persists the premium flag and returns the updated account.
func (s *Service) SetPremium(ctx context.Context, userID string, isPremium bool) (*Account, error) {
	if err := s.repo.SetPremium(ctx, userID, isPremium); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "error updating premium flag", logging.FieldUserID, userID, logging.FieldError, err)
		return nil, common.ErrInternal
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*Account, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &Account{User: user, Token: token}, nil
}
