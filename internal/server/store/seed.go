package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

var (
	seedFirst = []string{"Ann", "Boris", "Chen", "Dana", "Elif", "Farid", "Greta", "Hugo", "Ines", "Jonas", "Kira", "Liam"}
	seedLast  = []string{"Berzina", "Ozols", "Li", "Kalnina", "Yilmaz", "Haddad"}
	seedBanks = []struct{ name, kind, status string }{
		{"Baltic Savings", "SAVINGS", "ACTIVE"},
		{"Northern Trust", "CHECKING", "ACTIVE"},
		{"Harbor Business Bank", "BUSINESS", "INACTIVE"},
		{"Riga Credit Union", "CREDIT", "PENDING"},
	}
)

// Seed fills the store with deterministic demo records: users, banks, one
// account per user and a few withdrawals per user in every status.
func (s *Store) Seed() error {
	base := s.now().Add(-30 * 24 * time.Hour)

	bankIDs := make([]int64, 0, len(seedBanks))
	for _, b := range seedBanks {
		bank, err := s.CreateBank(models.Bank{
			Name:        b.name,
			AccountType: b.kind,
			Status:      b.status,
			Address:     "1 Main Street",
		})
		if err != nil {
			return fmt.Errorf("seed bank %s: %w", b.name, err)
		}
		bankIDs = append(bankIDs, bank.ID)
	}

	n := 0
	for i, first := range seedFirst {
		for j, last := range seedLast[:2] {
			n++
			u, err := s.CreateUser(models.User{
				FullName: first + " " + last,
				Email:    fmt.Sprintf("%s.%s%d@example.com", lower(first), lower(last), n),
				Phone:    fmt.Sprintf("+371 2%07d", n*7919),
				Country:  "LV",
				Balance:  float64((n * 137) % 5000),
				Status:   models.UserStatuses[(i+j)%len(models.UserStatuses)],
				Role:     models.RoleUser,
			})
			if err != nil {
				return fmt.Errorf("seed user %d: %w", n, err)
			}

			if _, err := s.CreateAccount(models.BankAccount{
				BankID:    bankIDs[n%2],
				UserID:    u.ID,
				RoutingNo: fmt.Sprintf("%09d", 21000000+n),
				IsOpen:    n%5 != 0,
			}); err != nil {
				return fmt.Errorf("seed account %d: %w", n, err)
			}

			w, err := s.CreateWithdraw(models.Withdraw{
				UserID:    u.ID,
				Amount:    float64(50 + (n*31)%900),
				Fee:       2.5,
				FeeType:   models.FeeTypes[n%len(models.FeeTypes)],
				CreatedAt: base.Add(time.Duration(n) * 12 * time.Hour),
			})
			if err != nil {
				return fmt.Errorf("seed withdraw %d: %w", n, err)
			}
			if st := models.WithdrawStatuses[n%len(models.WithdrawStatuses)]; st != models.WithdrawPending {
				if _, err := s.SetWithdrawStatus(w.ID, st); err != nil {
					return fmt.Errorf("seed withdraw status %d: %w", n, err)
				}
			}
		}
	}
	return nil
}

func lower(s string) string { return strings.ToLower(s) }
