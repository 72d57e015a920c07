// Package users authenticates administrators of the development backend.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/auth"
	"github.com/dmitrijs2005/bankadmin/internal/server/config"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned by a successful admin login.
type LoginResult struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
	}
}

// WithHashCost lowers the bcrypt cost, for tests.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

func (s *Service) HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
}

// EnsureAdmin creates the administrator account, or resets its password and
// role when the email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (models.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash admin password: %w", err)
	}

	existing, err := s.repo.GetUserByEmail(email)
	switch {
	case err == nil:
		return s.repo.UpdateUser(existing.ID, func(u *models.User) {
			u.PasswordHash = hash
			u.Role = models.RoleAdmin
			u.Status = "ACTIVE"
		})
	case errors.Is(err, common.ErrorNotFound):
		return s.repo.CreateUser(models.User{
			FullName:     "Administrator",
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			Status:       "ACTIVE",
		})
	default:
		return models.User{}, err
	}
}

// Login checks the credentials of an active administrator and issues an
// access token. Every mismatch yields common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Role != models.RoleAdmin || len(user.PasswordHash) == 0 {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

// Authenticate resolves a bearer token to the administrator it was issued
// to.
func (s *Service) Authenticate(ctx context.Context, token string) (models.User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.repo.GetUser(id)
	if err != nil || user.Role != models.RoleAdmin {
		return models.User{}, common.ErrInvalidToken
	}
	return user, nil
}
