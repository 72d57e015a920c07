package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownStatus = errors.New("unknown status")

type BankStatus string

const (
	BankPending  BankStatus = "PENDING"
	BankActive   BankStatus = "ACTIVE"
	BankInactive BankStatus = "INACTIVE"
)

var BankStatuses = []BankStatus{BankPending, BankActive, BankInactive}

type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
	AccountBusiness AccountType = "BUSINESS"
	AccountCredit   AccountType = "CREDIT"
)

type Bank struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
	Status      BankStatus  `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type BankInput struct {
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type,omitempty"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
	Status      BankStatus  `json:"status,omitempty"`
}

func ParseBankStatus(s string) (BankStatus, error) {
	for _, st := range BankStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: bank status %q", ErrUnknownStatus, s)
}
