package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
)

// WithdrawFilter mirrors the withdrawal list filters. Dates are YYYY-MM-DD.
type WithdrawFilter struct {
	Page      int
	PerPage   int
	Search    string
	Status    models.WithdrawStatus
	FeeType   models.FeeType
	MinAmount *float64
	MaxAmount *float64
	StartDate string
	EndDate   string
}

func (f WithdrawFilter) params() api.Params {
	return api.Params{
		"page":      page(f.Page),
		"perPage":   page(f.PerPage),
		"search":    f.Search,
		"status":    string(f.Status),
		"fee_type":  string(f.FeeType),
		"minAmount": f.MinAmount,
		"maxAmount": f.MaxAmount,
		"startDate": f.StartDate,
		"endDate":   f.EndDate,
	}
}

type WithdrawService interface {
	List(ctx context.Context, f WithdrawFilter) (api.Page[models.Withdraw], error)
	Get(ctx context.Context, id int64) (models.Withdraw, error)
	SetStatus(ctx context.Context, id int64, status models.WithdrawStatus) (models.Withdraw, error)
}

type withdrawService struct {
	res resource[models.Withdraw]
}

func NewWithdrawService(client *api.Client) WithdrawService {
	return &withdrawService{res: resource[models.Withdraw]{client: client, endpoint: "withdraws"}}
}

func (s *withdrawService) List(ctx context.Context, f WithdrawFilter) (api.Page[models.Withdraw], error) {
	return s.res.list(ctx, f.params())
}

func (s *withdrawService) Get(ctx context.Context, id int64) (models.Withdraw, error) {
	return s.res.get(ctx, id)
}

// SetStatus moves a pending withdrawal to status. Pending is not a valid
// target.
func (s *withdrawService) SetStatus(ctx context.Context, id int64, status models.WithdrawStatus) (models.Withdraw, error) {
	if _, err := models.ParseWithdrawStatus(string(status)); err != nil {
		return models.Withdraw{}, err
	}
	if status == models.WithdrawPending {
		return models.Withdraw{}, fmt.Errorf("%w: withdrawals cannot be moved back to %s", ErrInvalidTransition, status)
	}
	return s.res.setStatus(ctx, id, map[string]models.WithdrawStatus{"status": status})
}
