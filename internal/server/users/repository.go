package users

import "github.com/dmitrijs2005/bankadmin/internal/server/models"

// Repository is the user storage the service needs; *store.Store satisfies
// it.
type Repository interface {
	GetUser(id int64) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
	UpdateUser(id int64, fn func(*models.User)) (models.User, error)
}
