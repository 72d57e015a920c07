package services

import "errors"

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrMissingToken      = errors.New("login response carries no access token")
	ErrInvalidTransition = errors.New("invalid status transition")
)
