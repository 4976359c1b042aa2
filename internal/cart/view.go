// Package cart is the checkout view over a visitor's cart: which lines are
// selected for checkout, and mutations that show their effect before the API
// confirms it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

var (
	ErrQuantityRange     = errors.New("quantity must be between 1 and the available stock")
	ErrNothingSelected   = errors.New("no cart lines selected")
	ErrProfileIncomplete = errors.New("phone and address are required to place an order")
	ErrUnknownLine       = errors.New("product is not in the cart")
)

// Remote is the cart as the API keeps it. *store.CartSlice and *api.CartAPI
// both satisfy it; lines are addressed by product id.
type Remote interface {
	UpdateItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
}

type Line struct {
	models.CartItem
	Selected bool `json:"isSelected"`
}

// Stock is what the product reports, or 0 without an embedded product.
func (l Line) Stock() int {
	if l.Product == nil {
		return 0
	}
	return l.Product.Stock
}

// Total is price times quantity for this line.
func (l Line) Total() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// View is safe for concurrent use. Selection never leaves the process.
type View struct {
	mu    sync.Mutex
	lines []Line
}

func NewView() *View {
	return &View{lines: []Line{}}
}

// FromCart builds a view with nothing selected.
func FromCart(c *models.Cart) *View {
	v := NewView()
	v.Load(c)
	return v
}

// Load replaces the lines with a freshly fetched cart; selection resets.
func (v *View) Load(c *models.Cart) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lines = []Line{}
	if c == nil {
		return
	}
	for _, it := range c.Items {
		v.lines = append(v.lines, Line{CartItem: it})
	}
}

func (v *View) Lines() []Line {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.lines)
}

func (v *View) Line(productID int64) (Line, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.index(productID)
	if i < 0 {
		return Line{}, false
	}
	return v.lines[i], true
}

func (v *View) ToggleSelect(productID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.index(productID); i >= 0 {
		v.lines[i].Selected = !v.lines[i].Selected
	}
}

// ToggleAll deselects everything when everything is selected, otherwise
// selects everything.
func (v *View) ToggleAll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	all := len(v.lines) > 0 && v.selectedCount() == len(v.lines)
	for i := range v.lines {
		v.lines[i].Selected = !all
	}
}

func (v *View) DeselectAll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.lines {
		v.lines[i].Selected = false
	}
}

// Subtotal sums selected lines only.
func (v *View) Subtotal() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()

	sum := decimal.Zero
	for _, l := range v.lines {
		if l.Selected {
			sum = sum.Add(l.Total())
		}
	}
	return sum
}

func (v *View) SelectedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedCount()
}

func (v *View) Selected() []Line {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := []Line{}
	for _, l := range v.lines {
		if l.Selected {
			out = append(out, l)
		}
	}
	return out
}

// ChangeQuantity shows the new quantity at once and restores the previous
// quantity if the API refuses it. Out of range quantities never reach the API.
func (v *View) ChangeQuantity(ctx context.Context, remote Remote, productID int64, qty int) error {
	v.mu.Lock()
	i := v.index(productID)
	if i < 0 {
		v.mu.Unlock()
		return ErrUnknownLine
	}
	if qty < 1 || qty > v.lines[i].Stock() {
		v.mu.Unlock()
		return fmt.Errorf("%w: %d (stock %d)", ErrQuantityRange, qty, v.lines[i].Stock())
	}
	prev := v.lines[i].Quantity
	v.lines[i].Quantity = qty
	v.mu.Unlock()

	updated, err := remote.UpdateItem(ctx, productID, qty)
	if err != nil {
		v.restoreQuantity(productID, qty, prev)
		return err
	}
	v.Merge(updated)
	return nil
}

func (v *View) Remove(ctx context.Context, remote Remote, productID int64) error {
	v.mu.Lock()
	i := v.index(productID)
	if i < 0 {
		v.mu.Unlock()
		return ErrUnknownLine
	}
	removed := v.lines[i]
	v.lines = slices.Delete(v.lines, i, i+1)
	v.mu.Unlock()

	if err := remote.RemoveItem(ctx, productID); err != nil {
		v.reinsert([]Line{removed}, []int{i})
		return err
	}
	return nil
}

// Clear empties the view. Clearing an empty cart is not an error.
func (v *View) Clear(ctx context.Context, remote Remote) error {
	v.mu.Lock()
	snap := v.lines
	v.lines = []Line{}
	v.mu.Unlock()

	if err := remote.Clear(ctx); err != nil {
		at := make([]int, len(snap))
		for i := range at {
			at[i] = i
		}
		v.reinsert(snap, at)
		return err
	}
	return nil
}

// restoreQuantity puts prev back unless the line has moved on from qty.
// Rollbacks touch only the lines the failed call changed, so selection made
// by other requests in the meantime stays.
func (v *View) restoreQuantity(productID int64, qty, prev int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.index(productID); i >= 0 && v.lines[i].Quantity == qty {
		v.lines[i].Quantity = prev
	}
}

// reinsert puts lines back at their old positions, skipping any that
// reappeared meanwhile.
func (v *View) reinsert(lines []Line, at []int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for k, l := range lines {
		if v.index(l.ProductID) >= 0 {
			continue
		}
		i := min(at[k], len(v.lines))
		v.lines = slices.Insert(v.lines, i, l)
	}
}

// Merge takes the API's cart as the truth while keeping selection for
// lines that survived.
func (v *View) Merge(c *models.Cart) {
	if c == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	selected := make(map[int64]bool, len(v.lines))
	for _, l := range v.lines {
		selected[l.ProductID] = l.Selected
	}
	lines := make([]Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, Line{CartItem: it, Selected: selected[it.ProductID]})
	}
	v.lines = lines
}

func (v *View) index(productID int64) int {
	return slices.IndexFunc(v.lines, func(l Line) bool { return l.ProductID == productID })
}

func (v *View) selectedCount() int {
	n := 0
	for _, l := range v.lines {
		if l.Selected {
			n++
		}
	}
	return n
}
