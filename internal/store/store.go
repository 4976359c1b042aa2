package store

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

// Store is one visitor's state tree.
type Store struct {
	Auth       *AuthSlice
	Products   *Collection[models.Product]
	Categories *Collection[models.Category]
	Cart       *CartSlice
	Orders     *OrderSlice
	// CartView holds checkout selection over the last fetched cart.
	CartView *cart.View
}

func New(a *api.API, sessions session.Store) *Store {
	return &Store{
		Auth:       NewAuth(a.Auth, sessions),
		Products:   NewProducts(a.Products),
		Categories: NewCategories(a.Categories),
		Cart:       NewCart(a.Cart),
		Orders:     NewOrders(a.Orders),
		CartView:   cart.NewView(),
	}
}

// Logout ends the session and drops everything that belonged to the user.
func (s *Store) Logout(ctx context.Context) error {
	err := s.Auth.Logout(ctx)
	s.reset()
	return err
}

// Expire is Logout without the remote call, for credentials the guard
// rejected.
func (s *Store) Expire(ctx context.Context) error {
	err := s.Auth.Expire(ctx)
	s.reset()
	return err
}

func (s *Store) reset() {
	s.Cart.Reset()
	s.Orders.Reset()
	s.CartView.Load(nil)
}
