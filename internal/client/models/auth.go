package models

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the payload of a successful admin login. User is kept raw
// because the session stores it opaquely.
type LoginResponse struct {
	User        json.RawMessage `json:"user"`
	AccessToken string          `json:"access_token"`
}
