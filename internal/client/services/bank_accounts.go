package services

import (
	"context"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
)

type BankAccountFilter struct {
	Page   int
	Search string
	BankID int64
	IsOpen *bool
}

func (f BankAccountFilter) params() api.Params {
	p := api.Params{
		"page":   page(f.Page),
		"search": f.Search,
		"isOpen": f.IsOpen,
	}
	if f.BankID > 0 {
		p["bank_id"] = f.BankID
	}
	return p
}

type BankAccountService interface {
	List(ctx context.Context, f BankAccountFilter) (api.Page[models.BankAccount], error)
	Get(ctx context.Context, id int64) (models.BankAccount, error)
	Create(ctx context.Context, in models.BankAccountInput) (models.BankAccount, error)
	Update(ctx context.Context, id int64, in models.BankAccountInput) (models.BankAccount, error)
	Delete(ctx context.Context, id int64) error
	SetOpen(ctx context.Context, id int64, open bool) (models.BankAccount, error)
}

type bankAccountService struct {
	res resource[models.BankAccount]
}

func NewBankAccountService(client *api.Client) BankAccountService {
	return &bankAccountService{res: resource[models.BankAccount]{client: client, endpoint: "bank-accounts"}}
}

func (s *bankAccountService) List(ctx context.Context, f BankAccountFilter) (api.Page[models.BankAccount], error) {
	return s.res.list(ctx, f.params())
}

func (s *bankAccountService) Get(ctx context.Context, id int64) (models.BankAccount, error) {
	return s.res.get(ctx, id)
}

func (s *bankAccountService) Create(ctx context.Context, in models.BankAccountInput) (models.BankAccount, error) {
	return s.res.create(ctx, api.JSON(in))
}

func (s *bankAccountService) Update(ctx context.Context, id int64, in models.BankAccountInput) (models.BankAccount, error) {
	return s.res.update(ctx, id, api.JSON(in))
}

func (s *bankAccountService) Delete(ctx context.Context, id int64) error {
	return s.res.delete(ctx, id)
}

func (s *bankAccountService) SetOpen(ctx context.Context, id int64, open bool) (models.BankAccount, error) {
	return s.res.setStatus(ctx, id, map[string]bool{"is_open": open})
}
