package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
	"github.com/dmitrijs2005/bankadmin/internal/common"
)

const MinPasswordLength = 6

// CredentialStore is the write side of the session.
type CredentialStore interface {
	SetCredentials(ctx context.Context, user json.RawMessage, token string) error
	Logout(ctx context.Context) bool
}

// AuthService logs the administrator in and out.
//
// Login validates the credentials locally, posts them to the admin login
// endpoint and stores the returned user and token in the session. Logout
// clears the session and every cached result.
type AuthService interface {
	Login(ctx context.Context, email, password string) (json.RawMessage, error)
	Logout(ctx context.Context) bool
}

type authService struct {
	client  *api.Client
	session CredentialStore
}

func NewAuthService(client *api.Client, session CredentialStore) AuthService {
	return &authService{client: client, session: session}
}

// ValidateCredentials applies the login form rules.
func ValidateCredentials(email, password string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	resp, err := api.Send[models.LoginResponse](ctx, a.client, api.Mutation{
		Endpoint: common.LoginEndpoint,
		Method:   api.MethodPost,
		Body:     api.JSON(models.LoginRequest{Email: email, Password: password}),
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, ErrMissingToken
	}

	if err := a.session.SetCredentials(ctx, resp.User, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	a.client.ResetCache()

	return resp.User, nil
}

func (a *authService) Logout(ctx context.Context) bool {
	was := a.session.Logout(ctx)
	a.client.ResetCache()
	return was
}
