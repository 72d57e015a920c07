package store

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

// WithdrawQuery filters withdrawals. Dates are inclusive calendar days.
type WithdrawQuery struct {
	Page      int
	PerPage   int
	Search    string
	Status    string
	FeeType   string
	MinAmount *float64
	MaxAmount *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// view attaches the owner and the owner's first account. Callers hold the
// lock.
func (s *Store) view(w models.Withdraw) models.Withdraw {
	u, ok := s.users.get(w.UserID)
	if !ok {
		return w
	}

	wu := &models.WithdrawUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
	if accts := s.accounts.filter(func(a models.BankAccount) bool { return a.UserID == u.ID }); len(accts) > 0 {
		a := accts[0]
		if b, ok := s.banks.get(a.BankID); ok {
			a.Bank = &b
		}
		wu.BankAccounts = &a
	}
	w.User = wu
	return w
}

func (s *Store) ListWithdraws(q WithdrawQuery) Page[models.Withdraw] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.withdraws.filter(func(w models.Withdraw) bool {
		if q.Status != "" && w.Status != q.Status {
			return false
		}
		if q.FeeType != "" && w.FeeType != q.FeeType {
			return false
		}
		if q.MinAmount != nil && w.Amount < *q.MinAmount {
			return false
		}
		if q.MaxAmount != nil && w.Amount > *q.MaxAmount {
			return false
		}
		if q.StartDate != nil && w.CreatedAt.Before(*q.StartDate) {
			return false
		}
		if q.EndDate != nil && !w.CreatedAt.Before(q.EndDate.AddDate(0, 0, 1)) {
			return false
		}
		if q.Search == "" {
			return true
		}
		u, ok := s.users.get(w.UserID)
		return ok && (contains(u.FullName, q.Search) || contains(u.Email, q.Search))
	})

	page := paginate(rows, q.Page, q.PerPage)
	items := make([]models.Withdraw, len(page.Items))
	for i, w := range page.Items {
		items[i] = s.view(w)
	}
	page.Items = items
	return page
}

func (s *Store) GetWithdraw(id int64) (models.Withdraw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.withdraws.get(id)
	if !ok {
		return models.Withdraw{}, notFound("withdraw", id)
	}
	return s.view(w), nil
}

// CreateWithdraw records a pending withdrawal request.
func (s *Store) CreateWithdraw(w models.Withdraw) (models.Withdraw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := ValidationError{}
	if _, ok := s.users.get(w.UserID); !ok {
		v["user_id"] = "User does not exist"
	}
	if w.Amount <= 0 {
		v["amount"] = "Amount must be positive"
	}
	if w.FeeType == "" {
		w.FeeType = "FIXED"
	}
	checkOneOf(v, "fee_type", w.FeeType, models.FeeTypes)
	if err := v.orNil(); err != nil {
		return models.Withdraw{}, err
	}

	w.ID = s.withdraws.nextID()
	w.Status = models.WithdrawPending
	w.User = nil
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.now()
	}
	w.UpdatedAt = w.CreatedAt
	s.withdraws.put(w.ID, w)
	return s.view(w), nil
}

// SetWithdrawStatus moves a pending withdrawal to a final status.
func (s *Store) SetWithdrawStatus(id int64, status string) (models.Withdraw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdraws.get(id)
	if !ok {
		return models.Withdraw{}, notFound("withdraw", id)
	}

	v := ValidationError{}
	checkOneOf(v, "status", status, models.WithdrawStatuses)
	switch {
	case len(v) > 0:
		return models.Withdraw{}, v
	case status == models.WithdrawPending:
		return models.Withdraw{}, ValidationError{"status": "Withdrawals cannot be moved back to PENDING"}
	case w.Status != models.WithdrawPending:
		return models.Withdraw{}, ValidationError{"status": fmt.Sprintf("Withdrawal is already %s", w.Status)}
	}

	w.Status = status
	w.UpdatedAt = s.now()
	s.withdraws.put(id, w)
	return s.view(w), nil
}
