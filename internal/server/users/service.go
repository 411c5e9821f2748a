package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/cryptox"
	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
)

const saltSize = 32

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *Service) generateAccessToken(user *User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", err
	}
	return token, nil
}

// SignUp creates a user with a freshly salted argon2id password hash and
// mints an access token. A duplicate email yields common.ErrorAlreadyExists.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (string, *User, error) {

	salt := common.GenerateRandByteArray(saltSize)

	user := &User{
		Email:        email,
		Name:         name,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", nil, common.ErrorAlreadyExists
		}
		return "", nil, fmt.Errorf("error creating user: %v", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// SignIn checks the credentials and mints an access token. Both an unknown
// email and a wrong password map to common.ErrorUnauthorized so the caller
// cannot tell which part was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *User, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Profile returns the subject's user record.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the provided name/bio changes to the subject.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	return s.repo.UpdateProfile(ctx, id, upd)
}

// ChangePassword re-fetches the current credentials immediately before
// comparing, verifies the old password, and stores a new salt and hash.
// A wrong old password yields common.ErrorForbidden.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !cryptox.VerifyPassword([]byte(oldPassword), user.Salt, user.PasswordHash) {
		return common.ErrorForbidden
	}

	salt := common.GenerateRandByteArray(saltSize)
	hash := cryptox.HashPassword([]byte(newPassword), salt)

	if err := s.repo.UpdatePassword(ctx, id, salt, hash); err != nil {
		return common.ErrorInternal
	}

	return nil
}
