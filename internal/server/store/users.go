package store

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

// UserQuery filters the user listing. Search matches name, email or phone.
type UserQuery struct {
	Page       int
	Search     string
	Status     string
	Role       string
	MinBalance *float64
	MaxBalance *float64
}

func (q UserQuery) match(u models.User) bool {
	if q.Search != "" && !contains(u.FullName, q.Search) && !contains(u.Email, q.Search) && !contains(u.Phone, q.Search) {
		return false
	}
	if q.Status != "" && u.Status != q.Status {
		return false
	}
	if q.Role != "" && u.Role != q.Role {
		return false
	}
	if q.MinBalance != nil && u.Balance < *q.MinBalance {
		return false
	}
	if q.MaxBalance != nil && u.Balance > *q.MaxBalance {
		return false
	}
	return true
}

func (s *Store) ListUsers(q UserQuery) Page[models.User] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.users.filter(q.match), q.Page, DefaultPerPage)
}

func (s *Store) GetUser(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users.get(id)
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users.rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", email, common.ErrorNotFound)
}

func (s *Store) validateUser(u models.User) error {
	v := ValidationError{}
	if strings.TrimSpace(u.FullName) == "" {
		v["full_name"] = "Full name is required"
	}
	checkEmail(v, u.Email)
	checkOneOf(v, "status", u.Status, models.UserStatuses)
	checkOneOf(v, "role", u.Role, []string{models.RoleAdmin, models.RoleUser})

	for _, other := range s.users.rows {
		if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
			v["email"] = "Email is already taken"
		}
	}
	return v.orNil()
}

// CreateUser stores u with a fresh id. Status defaults to PENDING and role
// to USER.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Status == "" {
		u.Status = "PENDING"
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ID = 0
	if err := s.validateUser(u); err != nil {
		return models.User{}, err
	}

	u.ID = s.users.nextID()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users.put(u.ID, u)
	return u, nil
}

// UpdateUser applies fn to a copy of the user and stores it if it still
// validates.
func (s *Store) UpdateUser(id int64, fn func(*models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return models.User{}, notFound("user", id)
	}
	fn(&u)
	u.ID = id
	if err := s.validateUser(u); err != nil {
		return models.User{}, err
	}
	u.UpdatedAt = s.now()
	s.users.put(id, u)
	return u, nil
}

// DeleteUser removes the user together with its bank accounts.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.users.remove(id) {
		return notFound("user", id)
	}
	for _, a := range s.accounts.filter(func(a models.BankAccount) bool { return a.UserID == id }) {
		s.accounts.remove(a.ID)
	}
	return nil
}

func (s *Store) ActiveUsers() []models.Option {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.users.filter(func(u models.User) bool { return u.Status == "ACTIVE" && u.Role == models.RoleUser })
	opts := make([]models.Option, 0, len(active))
	for _, u := range active {
		opts = append(opts, models.Option{ID: u.ID, Name: u.FullName})
	}
	return opts
}
