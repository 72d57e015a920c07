package store

import (
	"strings"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

type BankQuery struct {
	Page   int
	Search string
	Status string
}

func (q BankQuery) match(b models.Bank) bool {
	if q.Search != "" && !contains(b.Name, q.Search) && !contains(b.Address, q.Search) {
		return false
	}
	return q.Status == "" || b.Status == q.Status
}

func (s *Store) ListBanks(q BankQuery) Page[models.Bank] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.banks.filter(q.match), q.Page, DefaultPerPage)
}

func (s *Store) GetBank(id int64) (models.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.banks.get(id)
	if !ok {
		return models.Bank{}, notFound("bank", id)
	}
	return b, nil
}

func validateBank(b models.Bank) error {
	v := ValidationError{}
	if strings.TrimSpace(b.Name) == "" {
		v["name"] = "Name is required"
	}
	checkOneOf(v, "account_type", b.AccountType, models.AccountTypes)
	checkOneOf(v, "status", b.Status, models.BankStatuses)
	return v.orNil()
}

func (s *Store) CreateBank(b models.Bank) (models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Status == "" {
		b.Status = "PENDING"
	}
	if b.AccountType == "" {
		b.AccountType = "CHECKING"
	}
	if err := validateBank(b); err != nil {
		return models.Bank{}, err
	}

	b.ID = s.banks.nextID()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.banks.put(b.ID, b)
	return b, nil
}

func (s *Store) UpdateBank(id int64, fn func(*models.Bank)) (models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banks.get(id)
	if !ok {
		return models.Bank{}, notFound("bank", id)
	}
	fn(&b)
	b.ID = id
	if err := validateBank(b); err != nil {
		return models.Bank{}, err
	}
	b.UpdatedAt = s.now()
	s.banks.put(id, b)
	return b, nil
}

// DeleteBank refuses to remove a bank that still has accounts.
func (s *Store) DeleteBank(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banks.get(id); !ok {
		return notFound("bank", id)
	}
	if len(s.accounts.filter(func(a models.BankAccount) bool { return a.BankID == id })) > 0 {
		return ValidationError{"bank": "Bank still has accounts"}
	}
	s.banks.remove(id)
	return nil
}

func (s *Store) ActiveBanks() []models.Option {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.banks.filter(func(b models.Bank) bool { return b.Status == "ACTIVE" })
	opts := make([]models.Option, 0, len(active))
	for _, b := range active {
		opts = append(opts, models.Option{ID: b.ID, Name: b.Name})
	}
	return opts
}
