package models

import (
	"fmt"
	"time"
)

type WithdrawStatus string

const (
	WithdrawPending   WithdrawStatus = "PENDING"
	WithdrawApproved  WithdrawStatus = "APPROVED"
	WithdrawRejected  WithdrawStatus = "REJECTED"
	WithdrawFailed    WithdrawStatus = "FAILED"
	WithdrawCancelled WithdrawStatus = "CANCELLED"
)

var WithdrawStatuses = []WithdrawStatus{
	WithdrawPending, WithdrawApproved, WithdrawRejected, WithdrawFailed, WithdrawCancelled,
}

// Final reports whether no further transition is allowed from s.
func (s WithdrawStatus) Final() bool {
	return s != WithdrawPending
}

type FeeType string

const (
	FeeFixed      FeeType = "FIXED"
	FeePercentage FeeType = "PERCENTAGE"
)

type WithdrawUser struct {
	ID           int64        `json:"id"`
	FullName     string       `json:"full_name"`
	Email        string       `json:"email"`
	BankAccounts *BankAccount `json:"bankAccounts,omitempty"`
}

type Withdraw struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	User      *WithdrawUser  `json:"user,omitempty"`
	Amount    float64        `json:"amount"`
	Fee       float64        `json:"fee"`
	FeeType   FeeType        `json:"fee_type"`
	Status    WithdrawStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func ParseWithdrawStatus(s string) (WithdrawStatus, error) {
	for _, st := range WithdrawStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: withdraw status %q", ErrUnknownStatus, s)
}
