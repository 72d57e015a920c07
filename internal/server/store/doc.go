// Package store is the in-memory data store of the development backend.
// It keeps users, banks, bank accounts and withdrawals, and implements the
// paging and filtering the list endpoints expose.
package store
