package models

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var UserStatuses = []string{"PENDING", "ACTIVE", "INACTIVE", "SUSPENDED"}

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	DOB          string    `json:"dob,omitempty"`
	Address      string    `json:"address,omitempty"`
	Country      string    `json:"country,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	Balance      float64   `json:"balance"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Option is one entry of a dropdown listing.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
