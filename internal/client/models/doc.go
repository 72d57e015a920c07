// Package models defines the records the admin backend exchanges with the
// client: users, banks, bank accounts and withdrawals.
package models
