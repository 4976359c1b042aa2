package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

type CartAPI struct {
	c Doer
}

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (a *CartAPI) Get(ctx context.Context) (*models.Cart, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Cart(raw)
}

// Add returns the whole cart as the API recomputed it.
func (a *CartAPI) Add(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/cart", addToCartRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return envelope.Cart(raw)
}

// UpdateItem addresses the line by the id the API keys cart lines on, which
// is the product id.
func (a *CartAPI) UpdateItem(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	raw, err := a.c.Do(ctx, http.MethodPut, "/cart/"+id(itemID), updateCartItemRequest{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return envelope.Cart(raw)
}

func (a *CartAPI) RemoveItem(ctx context.Context, itemID int64) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/cart/item/"+id(itemID), nil)
	return err
}

func (a *CartAPI) Clear(ctx context.Context) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/cart", nil)
	return err
}
