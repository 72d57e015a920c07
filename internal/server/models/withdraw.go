package models

import "time"

const WithdrawPending = "PENDING"

var (
	WithdrawStatuses = []string{"PENDING", "APPROVED", "REJECTED", "FAILED", "CANCELLED"}
	FeeTypes         = []string{"FIXED", "PERCENTAGE"}
)

type WithdrawUser struct {
	ID           int64        `json:"id"`
	FullName     string       `json:"full_name"`
	Email        string       `json:"email"`
	BankAccounts *BankAccount `json:"bankAccounts,omitempty"`
}

type Withdraw struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	User      *WithdrawUser `json:"user,omitempty"`
	Amount    float64       `json:"amount"`
	Fee       float64       `json:"fee"`
	FeeType   string        `json:"fee_type"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
