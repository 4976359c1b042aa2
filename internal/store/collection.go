package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Source is the accessor a Collection runs against. *api.ProductAPI and
// *api.CategoryAPI satisfy it for their record types.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, v T) (*T, error)
	Update(ctx context.Context, id int64, v T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type Messages struct {
	List, Get, Create, Update, Delete string
}

var (
	productMessages = Messages{
		List:   "failed to load products",
		Get:    "failed to load product",
		Create: "failed to create product",
		Update: "failed to update product",
		Delete: "failed to delete product",
	}
	categoryMessages = Messages{
		List:   "failed to load categories",
		Get:    "failed to load category",
		Create: "failed to create category",
		Update: "failed to update category",
		Delete: "failed to delete category",
	}
)

type CollectionState[T any] struct {
	Items    []T `json:"items"`
	Selected *T  `json:"selected"`
	Lifecycle
}

// Collection is the slice shape shared by products and categories: a list,
// the record currently opened, and the lifecycle of the last request.
type Collection[T any] struct {
	mu   sync.Mutex
	st   CollectionState[T]
	src  Source[T]
	id   func(T) int64
	msgs Messages
}

func NewCollection[T any](src Source[T], id func(T) int64, msgs Messages) *Collection[T] {
	return &Collection[T]{
		st:   CollectionState[T]{Items: []T{}, Lifecycle: idle()},
		src:  src,
		id:   id,
		msgs: msgs,
	}
}

func NewProducts(src Source[models.Product]) *Collection[models.Product] {
	return NewCollection(src, func(p models.Product) int64 { return p.ID }, productMessages)
}

func NewCategories(src Source[models.Category]) *Collection[models.Category] {
	return NewCollection(src, func(c models.Category) int64 { return c.ID }, categoryMessages)
}

// State returns a copy safe to read while requests are in flight.
func (c *Collection[T]) State() CollectionState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.st
	out.Items = slices.Clone(c.st.Items)
	if c.st.Selected != nil {
		sel := *c.st.Selected
		out.Selected = &sel
	}
	return out
}

func (c *Collection[T]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Error = ""
}

func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, c.msgs.List, c.src.List, func(items []T) {
		c.st.Items = slices.Clone(items)
		if c.st.Items == nil {
			c.st.Items = []T{}
		}
	})
}

func (c *Collection[T]) FetchByID(ctx context.Context, id int64) (*T, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, c.msgs.Get,
		func(ctx context.Context) (*T, error) { return c.src.Get(ctx, id) },
		func(v *T) {
			if v == nil {
				c.st.Selected = nil
				return
			}
			sel := *v
			c.st.Selected = &sel
		},
	)
}

// Create appends the API's record, or the submitted one when the API
// answered without a body.
func (c *Collection[T]) Create(ctx context.Context, v T) (*T, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, c.msgs.Create,
		func(ctx context.Context) (*T, error) {
			created, err := c.src.Create(ctx, v)
			if err == nil && created == nil {
				created = &v
			}
			return created, err
		},
		func(created *T) { c.st.Items = append(c.st.Items, *created) },
	)
}

// Update replaces the matching record in the list and overwrites the opened
// record when it is the same one.
func (c *Collection[T]) Update(ctx context.Context, id int64, v T) (*T, error) {
	return dispatch(ctx, &c.mu, &c.st.Lifecycle, c.msgs.Update,
		func(ctx context.Context) (*T, error) {
			updated, err := c.src.Update(ctx, id, v)
			if err == nil && updated == nil {
				updated = &v
			}
			return updated, err
		},
		func(updated *T) {
			for i := range c.st.Items {
				if c.id(c.st.Items[i]) == id {
					c.st.Items[i] = *updated
				}
			}
			if c.st.Selected != nil && c.id(*c.st.Selected) == id {
				sel := *updated
				c.st.Selected = &sel
			}
		},
	)
}

// Delete drops the record from the list and clears the opened record when it
// is the same one.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	return dispatchErr(ctx, &c.mu, &c.st.Lifecycle, c.msgs.Delete,
		func(ctx context.Context) error { return c.src.Delete(ctx, id) },
		func() {
			c.st.Items = slices.DeleteFunc(c.st.Items, func(v T) bool { return c.id(v) == id })
			if c.st.Selected != nil && c.id(*c.st.Selected) == id {
				c.st.Selected = nil
			}
		},
	)
}
