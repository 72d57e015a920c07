package services

import (
	"context"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
)

// UserFilter narrows the user list. Zero values are not sent.
type UserFilter struct {
	Page       int
	Search     string
	Status     models.UserStatus
	Role       models.Role
	MinBalance *float64
	MaxBalance *float64
}

func (f UserFilter) params() api.Params {
	return api.Params{
		"page":       page(f.Page),
		"search":     f.Search,
		"status":     string(f.Status),
		"role":       string(f.Role),
		"minBalance": f.MinBalance,
		"maxBalance": f.MaxBalance,
	}
}

type UserService interface {
	List(ctx context.Context, f UserFilter) (api.Page[models.User], error)
	Watch(ctx context.Context, f UserFilter) (*api.Subscription, error)
	Get(ctx context.Context, id int64) (models.User, error)
	// Create sends a multipart form when photo is set and JSON otherwise.
	Create(ctx context.Context, in models.UserInput, photo *api.File) (models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput, photo *api.File) (models.User, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.UserStatus) (models.User, error)
	ActiveDropdown(ctx context.Context) ([]models.Option, error)
}

type userService struct {
	res resource[models.User]
}

func NewUserService(client *api.Client) UserService {
	return &userService{res: resource[models.User]{client: client, endpoint: "users"}}
}

func (s *userService) List(ctx context.Context, f UserFilter) (api.Page[models.User], error) {
	return s.res.list(ctx, f.params())
}

func (s *userService) Watch(ctx context.Context, f UserFilter) (*api.Subscription, error) {
	return s.res.subscribe(ctx, f.params())
}

func (s *userService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.res.get(ctx, id)
}

func (s *userService) Create(ctx context.Context, in models.UserInput, photo *api.File) (models.User, error) {
	return s.res.create(ctx, userBody(in, photo))
}

func (s *userService) Update(ctx context.Context, id int64, in models.UserInput, photo *api.File) (models.User, error) {
	return s.res.update(ctx, id, userBody(in, photo))
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.res.delete(ctx, id)
}

func (s *userService) SetStatus(ctx context.Context, id int64, status models.UserStatus) (models.User, error) {
	return s.res.setStatus(ctx, id, map[string]models.UserStatus{"status": status})
}

func (s *userService) ActiveDropdown(ctx context.Context) ([]models.Option, error) {
	return s.res.activeDropdown(ctx)
}

func userBody(in models.UserInput, photo *api.File) api.Body {
	if photo == nil {
		return api.JSON(in)
	}
	f := *photo
	if f.Field == "" {
		f.Field = "photo"
	}
	return api.Multipart{Fields: in.Fields(), Files: []api.File{f}}
}
