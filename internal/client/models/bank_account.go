package models

import "time"

// BankAccount links a user to a bank. User and Bank are populated by the
// backend on reads.
type BankAccount struct {
	ID            int64     `json:"id"`
	AccountNumber string    `json:"account_number"`
	RoutingNo     string    `json:"routing_no,omitempty"`
	BankID        int64     `json:"bank_id"`
	UserID        int64     `json:"user_id"`
	IsOpen        bool      `json:"is_open"`
	Bank          *Bank     `json:"bank,omitempty"`
	User          *User     `json:"user,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BankAccountInput struct {
	BankID    int64  `json:"bank_id"`
	UserID    int64  `json:"user_id"`
	RoutingNo string `json:"routing_no,omitempty"`
	IsOpen    bool   `json:"is_open"`
}
