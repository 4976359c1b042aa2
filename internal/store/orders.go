package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/models"
)

type OrderSource interface {
	Create(ctx context.Context, in api.CreateOrderInput) (*models.Order, error)
	Mine(ctx context.Context) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Approve(ctx context.Context, orderID int64) (*models.Order, error)
	Cancel(ctx context.Context, orderID int64) (*models.Order, error)
}

type OrderState struct {
	Items []models.Order `json:"items"`
	Lifecycle
}

type OrderSlice struct {
	mu  sync.Mutex
	st  OrderState
	src OrderSource
}

func NewOrders(src OrderSource) *OrderSlice {
	return &OrderSlice{st: OrderState{Items: []models.Order{}, Lifecycle: idle()}, src: src}
}

func (o *OrderSlice) State() OrderState {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := o.st
	out.Items = slices.Clone(o.st.Items)
	return out
}

func (o *OrderSlice) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.st = OrderState{Items: []models.Order{}, Lifecycle: idle()}
}

func (o *OrderSlice) FetchMine(ctx context.Context) ([]models.Order, error) {
	return dispatch(ctx, &o.mu, &o.st.Lifecycle, "failed to load orders", o.src.Mine, o.replaceAll)
}

func (o *OrderSlice) FetchAll(ctx context.Context) ([]models.Order, error) {
	return dispatch(ctx, &o.mu, &o.st.Lifecycle, "failed to load orders", o.src.All, o.replaceAll)
}

// Place submits an order and puts the API's record first in the list.
func (o *OrderSlice) Place(ctx context.Context, in api.CreateOrderInput) (*models.Order, error) {
	return dispatch(ctx, &o.mu, &o.st.Lifecycle, "failed to place order",
		func(ctx context.Context) (*models.Order, error) { return o.src.Create(ctx, in) },
		func(order *models.Order) {
			if order != nil {
				o.st.Items = append([]models.Order{*order}, o.st.Items...)
			}
		},
	)
}

func (o *OrderSlice) Approve(ctx context.Context, orderID int64) (*models.Order, error) {
	return o.transition(ctx, orderID, models.OrderApproved, o.src.Approve, "failed to approve order")
}

func (o *OrderSlice) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {
	return o.transition(ctx, orderID, models.OrderCancelled, o.src.Cancel, "failed to cancel order")
}

// transition applies the status change locally only after the API accepted
// it. The API's record wins; without one only the status is set.
func (o *OrderSlice) transition(
	ctx context.Context,
	orderID int64,
	status models.OrderStatus,
	call func(context.Context, int64) (*models.Order, error),
	fallback string,
) (*models.Order, error) {
	return dispatch(ctx, &o.mu, &o.st.Lifecycle, fallback,
		func(ctx context.Context) (*models.Order, error) { return call(ctx, orderID) },
		func(updated *models.Order) {
			for i := range o.st.Items {
				if o.st.Items[i].ID != orderID {
					continue
				}
				if updated != nil {
					o.st.Items[i] = *updated
				} else {
					o.st.Items[i].Status = status
				}
			}
		},
	)
}

func (o *OrderSlice) replaceAll(items []models.Order) {
	o.st.Items = slices.Clone(items)
	if o.st.Items == nil {
		o.st.Items = []models.Order{}
	}
}
