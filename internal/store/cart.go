package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

type CartSource interface {
	Get(ctx context.Context) (*models.Cart, error)
	Add(ctx context.Context, productID int64, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
}

type CartState struct {
	Cart *models.Cart `json:"cart"`
	Lifecycle
}

type CartSlice struct {
	mu  sync.Mutex
	st  CartState
	src CartSource
}

func NewCart(src CartSource) *CartSlice {
	return &CartSlice{st: CartState{Lifecycle: idle()}, src: src}
}

func (c *CartSlice) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.st
	if c.st.Cart != nil {
		cp := *c.st.Cart
		cp.Items = slices.Clone(c.st.Cart.Items)
		out.Cart = &cp
	}
	return out
}

func (c *CartSlice) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Error = ""
}

// Reset forgets the cart, used on logout.
func (c *CartSlice) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = CartState{Lifecycle: idle()}
}

func (c *CartSlice) Fetch(ctx context.Context) (*models.Cart, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, "failed to load cart", c.src.Get, c.replace)
}

// Add and UpdateItem take the cart as the API recomputed it.
func (c *CartSlice) Add(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, "failed to add product to cart",
		func(ctx context.Context) (*models.Cart, error) { return c.src.Add(ctx, productID, quantity) },
		c.replace,
	)
}

func (c *CartSlice) UpdateItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, "failed to update cart",
		func(ctx context.Context) (*models.Cart, error) { return c.src.UpdateItem(ctx, productID, quantity) },
		c.replace,
	)
}

// RemoveItem filters the line out locally; the API answers without a body.
func (c *CartSlice) RemoveItem(ctx context.Context, productID int64) error {
	return dispatchErr(ctx, &c.mu, &c.st.Lifecycle, "failed to remove product from cart",
		func(ctx context.Context) error { return c.src.RemoveItem(ctx, productID) },
		func() {
			if c.st.Cart == nil {
				return
			}
			c.st.Cart.Items = slices.DeleteFunc(c.st.Cart.Items, func(it models.CartItem) bool {
				return it.ProductID == productID
			})
		},
	)
}

// Clear empties the lines. Clearing an empty or never-fetched cart succeeds.
func (c *CartSlice) Clear(ctx context.Context) error {
	return dispatchErr(ctx, &c.mu, &c.st.Lifecycle, "failed to clear cart", c.src.Clear, func() {
		if c.st.Cart != nil {
			c.st.Cart.Items = []models.CartItem{}
		}
	})
}

// replace keeps its own copy so later in-place edits never reach the value
// handed back to the caller.
func (c *CartSlice) replace(cart *models.Cart) {
	if cart == nil {
		c.st.Cart = nil
		return
	}
	cp := *cart
	cp.Items = slices.Clone(cart.Items)
	if cp.Items == nil {
		cp.Items = []models.CartItem{}
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	c.st.Cart = &cp
}
