package store

import (
	"fmt"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

type AccountQuery struct {
	Page   int
	Search string
	BankID int64
	IsOpen *bool
}

// resolve fills in the account's bank and user. Callers hold the lock.
func (s *Store) resolve(a models.BankAccount) models.BankAccount {
	if b, ok := s.banks.get(a.BankID); ok {
		a.Bank = &b
	}
	if u, ok := s.users.get(a.UserID); ok {
		a.User = &u
	}
	return a
}

func (s *Store) ListAccounts(q AccountQuery) Page[models.BankAccount] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.accounts.filter(func(a models.BankAccount) bool {
		if q.BankID != 0 && a.BankID != q.BankID {
			return false
		}
		if q.IsOpen != nil && a.IsOpen != *q.IsOpen {
			return false
		}
		if q.Search == "" {
			return true
		}
		if contains(a.AccountNumber, q.Search) || contains(a.RoutingNo, q.Search) {
			return true
		}
		u, ok := s.users.get(a.UserID)
		return ok && (contains(u.FullName, q.Search) || contains(u.Email, q.Search))
	})

	page := paginate(rows, q.Page, DefaultPerPage)
	items := make([]models.BankAccount, len(page.Items))
	for i, a := range page.Items {
		items[i] = s.resolve(a)
	}
	page.Items = items
	return page
}

func (s *Store) GetAccount(id int64) (models.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts.get(id)
	if !ok {
		return models.BankAccount{}, notFound("bank account", id)
	}
	return s.resolve(a), nil
}

func (s *Store) validateAccount(a models.BankAccount) error {
	v := ValidationError{}
	if _, ok := s.banks.get(a.BankID); !ok {
		v["bank_id"] = "Bank does not exist"
	}
	if _, ok := s.users.get(a.UserID); !ok {
		v["user_id"] = "User does not exist"
	}
	return v.orNil()
}

// CreateAccount assigns a sequential account number when none is given.
func (s *Store) CreateAccount(a models.BankAccount) (models.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAccount(a); err != nil {
		return models.BankAccount{}, err
	}

	a.ID = s.accounts.nextID()
	if a.AccountNumber == "" {
		a.AccountNumber = fmt.Sprintf("%010d", 4000000000+a.ID)
	}
	a.Bank, a.User = nil, nil
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.accounts.put(a.ID, a)
	return s.resolve(a), nil
}

func (s *Store) UpdateAccount(id int64, fn func(*models.BankAccount)) (models.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts.get(id)
	if !ok {
		return models.BankAccount{}, notFound("bank account", id)
	}
	fn(&a)
	a.ID = id
	if err := s.validateAccount(a); err != nil {
		return models.BankAccount{}, err
	}
	a.Bank, a.User = nil, nil
	a.UpdatedAt = s.now()
	s.accounts.put(id, a)
	return s.resolve(a), nil
}

func (s *Store) DeleteAccount(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accounts.remove(id) {
		return notFound("bank account", id)
	}
	return nil
}
