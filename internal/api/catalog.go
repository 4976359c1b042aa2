package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

type ProductAPI struct {
	c Doer
}

func (a *ProductAPI) List(ctx context.Context) ([]models.Product, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Products(raw)
}

func (a *ProductAPI) Get(ctx context.Context, productID int64) (*models.Product, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/products/"+id(productID), nil)
	if err != nil {
		return nil, err
	}
	return envelope.Product(raw)
}

// Create and Update send the full record; the API never receives partial
// patches. A nil record with a nil error means the API answered without a body.
func (a *ProductAPI) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/products", p)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.Product(raw)
}

func (a *ProductAPI) Update(ctx context.Context, productID int64, p models.Product) (*models.Product, error) {
	p.ID = productID
	raw, err := a.c.Do(ctx, http.MethodPut, "/products/"+id(productID), p)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.Product(raw)
}

func (a *ProductAPI) Delete(ctx context.Context, productID int64) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/products/"+id(productID), nil)
	return err
}

type CategoryAPI struct {
	c Doer
}

func (a *CategoryAPI) List(ctx context.Context) ([]models.Category, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Categories(raw)
}

func (a *CategoryAPI) Get(ctx context.Context, categoryID int64) (*models.Category, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/categories/"+id(categoryID), nil)
	if err != nil {
		return nil, err
	}
	return envelope.Category(raw)
}

func (a *CategoryAPI) Create(ctx context.Context, cat models.Category) (*models.Category, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/categories", cat)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.Category(raw)
}

func (a *CategoryAPI) Update(ctx context.Context, categoryID int64, cat models.Category) (*models.Category, error) {
	cat.ID = categoryID
	raw, err := a.c.Do(ctx, http.MethodPut, "/categories/"+id(categoryID), cat)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.Category(raw)
}

func (a *CategoryAPI) Delete(ctx context.Context, categoryID int64) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/categories/"+id(categoryID), nil)
	return err
}
