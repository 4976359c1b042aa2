package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	PaymentCOD    = "COD"
	PaymentOnline = "ONLINE"
)

type OrderAPI struct {
	c Doer
}

type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	CartItems       []OrderLine `json:"cartItems"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	PhoneNumber     string      `json:"phoneNumber,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
}

// Create places an order; payment defaults to cash on delivery.
func (a *OrderAPI) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCOD
	}
	raw, err := a.c.Do(ctx, http.MethodPost, "/orders", in)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.Order(raw)
}

func (a *OrderAPI) Mine(ctx context.Context) ([]models.Order, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Orders(raw)
}

func (a *OrderAPI) All(ctx context.Context) ([]models.Order, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/orders/all", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Orders(raw)
}

// Approve and Cancel return the order as the API left it, or nil when the
// API answered without a body.
func (a *OrderAPI) Approve(ctx context.Context, orderID int64) (*models.Order, error) {
	return a.transition(ctx, orderID, "approve")
}

func (a *OrderAPI) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {
	return a.transition(ctx, orderID, "cancel")
}

func (a *OrderAPI) transition(ctx context.Context, orderID int64, action string) (*models.Order, error) {
	raw, err := a.c.Do(ctx, http.MethodPut, "/orders/"+id(orderID)+"/"+action, nil)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	o, err := envelope.Order(raw)
	if err != nil || o.ID == 0 {
		return nil, err
	}
	return o, nil
}
