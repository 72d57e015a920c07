package store

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

// Store keeps every record in memory behind one lock. Returned records are
// copies.
type Store struct {
	mu        sync.RWMutex
	users     *collection[models.User]
	banks     *collection[models.Bank]
	accounts  *collection[models.BankAccount]
	withdraws *collection[models.Withdraw]
	now       func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		users:     newCollection[models.User](),
		banks:     newCollection[models.Bank](),
		accounts:  newCollection[models.BankAccount](),
		withdraws: newCollection[models.Withdraw](),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, common.ErrorNotFound)
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func checkEmail(v ValidationError, email string) {
	if email == "" {
		v["email"] = "Email is required"
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		v["email"] = "Invalid email address"
	}
}

func checkOneOf(v ValidationError, field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v[field] = fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))
	}
}
