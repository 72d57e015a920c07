package services

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
)

// resource implements the operations every admin resource shares.
type resource[T any] struct {
	client   *api.Client
	endpoint string
}

func (r resource[T]) tags() []api.Tag {
	return api.ResourceTags(r.endpoint)
}

func (r resource[T]) list(ctx context.Context, params api.Params) (api.Page[T], error) {
	return api.GetPage[T](ctx, r.client, api.Query{Endpoint: r.endpoint, Params: params})
}

func (r resource[T]) subscribe(ctx context.Context, params api.Params) (*api.Subscription, error) {
	return r.client.Subscribe(ctx, api.Query{Endpoint: r.endpoint, Params: params})
}

func (r resource[T]) get(ctx context.Context, id int64) (T, error) {
	return api.GetByID[T](ctx, r.client, api.ItemQuery{Endpoint: r.endpoint, ID: formatID(id)})
}

func (r resource[T]) create(ctx context.Context, body api.Body) (T, error) {
	return api.Send[T](ctx, r.client, api.Mutation{
		Endpoint:    r.endpoint,
		Method:      api.MethodPost,
		Body:        body,
		Invalidates: r.tags(),
	})
}

func (r resource[T]) update(ctx context.Context, id int64, body api.Body) (T, error) {
	return api.Send[T](ctx, r.client, api.Mutation{
		Endpoint:       r.endpoint + "/" + formatID(id),
		Method:         api.MethodPut,
		Body:           body,
		Invalidates:    r.tags(),
		OverrideMethod: true,
	})
}

func (r resource[T]) delete(ctx context.Context, id int64) error {
	_, err := r.client.Mutate(ctx, api.Mutation{
		Endpoint:    r.endpoint + "/" + formatID(id),
		Method:      api.MethodDelete,
		Invalidates: r.tags(),
	})
	return err
}

// setStatus issues PUT <endpoint>/status/<id> with a JSON body.
func (r resource[T]) setStatus(ctx context.Context, id int64, body any) (T, error) {
	return api.Send[T](ctx, r.client, api.Mutation{
		Endpoint:    r.endpoint + "/status/" + formatID(id),
		Method:      api.MethodPut,
		Body:        api.JSON(body),
		Invalidates: r.tags(),
	})
}

func (r resource[T]) activeDropdown(ctx context.Context) ([]models.Option, error) {
	return api.Get[[]models.Option](ctx, r.client, api.Query{Endpoint: r.endpoint + "/dropdown/active"})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// page drops non-positive page numbers so the backend default applies.
func page(p int) any {
	if p <= 0 {
		return nil
	}
	return p
}
