package models

import "time"

var (
	BankStatuses = []string{"PENDING", "ACTIVE", "INACTIVE"}
	AccountTypes = []string{"CHECKING", "SAVINGS", "BUSINESS", "CREDIT"}
)

type Bank struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BankAccount is stored with foreign keys only; Bank and User are filled
// in when the account is read.
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
