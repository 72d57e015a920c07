package models

import (
	"fmt"
	"time"
)

type UserStatus string

const (
	UserPending   UserStatus = "PENDING"
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

var UserStatuses = []UserStatus{UserPending, UserActive, UserInactive, UserSuspended}

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is a customer (or administrator) account.
type User struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	DOB       string     `json:"dob,omitempty"`
	Address   string     `json:"address,omitempty"`
	Country   string     `json:"country,omitempty"`
	Photo     string     `json:"photo,omitempty"`
	Balance   float64    `json:"balance"`
	Status    UserStatus `json:"status"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserInput carries the writable fields of a user. Password is only sent on
// create or when it changes.
type UserInput struct {
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	DOB      string     `json:"dob,omitempty"`
	Address  string     `json:"address,omitempty"`
	Status   UserStatus `json:"status,omitempty"`
	Role     Role       `json:"role,omitempty"`
}

// Fields renders u as multipart form fields.
func (u UserInput) Fields() map[string]string {
	f := map[string]string{
		"full_name": u.FullName,
		"email":     u.Email,
	}
	for k, v := range map[string]string{
		"password": u.Password,
		"phone":    u.Phone,
		"dob":      u.DOB,
		"address":  u.Address,
		"status":   string(u.Status),
		"role":     string(u.Role),
	} {
		if v != "" {
			f[k] = v
		}
	}
	return f
}

// Option is an entry of a dropdown endpoint.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func ParseUserStatus(s string) (UserStatus, error) {
	for _, st := range UserStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: user status %q", ErrUnknownStatus, s)
}
