package services

import (
	"context"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
)

type BankFilter struct {
	Page   int
	Search string
	Status models.BankStatus
}

func (f BankFilter) params() api.Params {
	return api.Params{
		"page":   page(f.Page),
		"search": f.Search,
		"status": string(f.Status),
	}
}

type BankService interface {
	List(ctx context.Context, f BankFilter) (api.Page[models.Bank], error)
	Get(ctx context.Context, id int64) (models.Bank, error)
	Create(ctx context.Context, in models.BankInput) (models.Bank, error)
	Update(ctx context.Context, id int64, in models.BankInput) (models.Bank, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.BankStatus) (models.Bank, error)
	ActiveDropdown(ctx context.Context) ([]models.Option, error)
}

type bankService struct {
	res resource[models.Bank]
}

func NewBankService(client *api.Client) BankService {
	return &bankService{res: resource[models.Bank]{client: client, endpoint: "banks"}}
}

func (s *bankService) List(ctx context.Context, f BankFilter) (api.Page[models.Bank], error) {
	return s.res.list(ctx, f.params())
}

func (s *bankService) Get(ctx context.Context, id int64) (models.Bank, error) {
	return s.res.get(ctx, id)
}

func (s *bankService) Create(ctx context.Context, in models.BankInput) (models.Bank, error) {
	return s.res.create(ctx, api.JSON(in))
}

func (s *bankService) Update(ctx context.Context, id int64, in models.BankInput) (models.Bank, error) {
	return s.res.update(ctx, id, api.JSON(in))
}

func (s *bankService) Delete(ctx context.Context, id int64) error {
	return s.res.delete(ctx, id)
}

func (s *bankService) SetStatus(ctx context.Context, id int64, status models.BankStatus) (models.Bank, error) {
	return s.res.setStatus(ctx, id, map[string]models.BankStatus{"status": status})
}

func (s *bankService) ActiveDropdown(ctx context.Context) ([]models.Option, error) {
	return s.res.activeDropdown(ctx)
}
