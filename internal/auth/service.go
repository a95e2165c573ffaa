package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/loomery-io/loomery-backend/pkg/auth"
	"github.com/loomery-io/loomery-backend/pkg/config"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/security"
)

type usersRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service exposes login.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	users  usersRepository
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// NewService builds the auth service.
func NewService(users usersRepository, jwtCfg config.JWTConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{users: users, jwtCfg: jwtCfg, now: time.Now}, nil
}

// LoginInput is an email+password credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the minted token and the authenticated user.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	User        *UserDTO `json:"user"`
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same code as a bad password so probes cannot enumerate emails.
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		PartyID: user.PartyID,
		Role:    user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{AccessToken: token, User: FromModel(user)}, nil
}
