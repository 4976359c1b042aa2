package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/store"
)

type cartResponse struct {
	Items         []cart.Line `json:"items"`
	Subtotal      string      `json:"subtotal"`
	SelectedCount int         `json:"selectedCount"`
	AllSelected   bool        `json:"allSelected"`
	store.Lifecycle
}

func cartView(st *store.Store) cartResponse {
	lines := st.CartView.Lines()
	n := st.CartView.SelectedCount()
	return cartResponse{
		Items:         lines,
		Subtotal:      st.CartView.Subtotal().StringFixed(2),
		SelectedCount: n,
		AllSelected:   len(lines) > 0 && n == len(lines),
		Lifecycle:     st.Cart.State().Lifecycle,
	}
}

func (h *handlers) GetCart(c echo.Context) error {
	st := storeOf(c)
	fetched, err := st.Cart.Fetch(c.Request().Context())
	if err != nil {
		return fail(c, "get_cart", err, "failed to load cart")
	}
	st.CartView.Load(fetched)
	return c.JSON(http.StatusOK, cartView(st))
}

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil || req.ProductID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return fail(c, "add_to_cart", cart.ErrQuantityRange, "failed to add product to cart")
	}

	st := storeOf(c)
	updated, err := st.Cart.Add(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, "add_to_cart", err, "failed to add product to cart")
	}
	st.CartView.Merge(updated)
	h.publish(c, events.TypeCartAdd, map[string]any{"productId": req.ProductID, "quantity": req.Quantity})
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) ChangeQuantity(c echo.Context) error {
	pid, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	st := storeOf(c)
	if err := st.CartView.ChangeQuantity(c.Request().Context(), st.Cart, pid, req.Quantity); err != nil {
		return fail(c, "change_quantity", err, "failed to update cart")
	}
	h.publish(c, events.TypeCartUpdate, map[string]any{"productId": pid, "quantity": req.Quantity})
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) RemoveFromCart(c echo.Context) error {
	pid, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	st := storeOf(c)
	if err := st.CartView.Remove(c.Request().Context(), st.Cart, pid); err != nil {
		return fail(c, "remove_from_cart", err, "failed to remove product from cart")
	}
	h.publish(c, events.TypeCartRemove, map[string]any{"productId": pid})
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) ClearCart(c echo.Context) error {
	st := storeOf(c)
	if err := st.CartView.Clear(c.Request().Context(), st.Cart); err != nil {
		return fail(c, "clear_cart", err, "failed to clear cart")
	}
	h.publish(c, events.TypeCartClear, nil)
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) ToggleSelect(c echo.Context) error {
	pid, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	st := storeOf(c)
	if _, ok := st.CartView.Line(pid); !ok {
		return fail(c, "toggle_select", cart.ErrUnknownLine, "product is not in the cart")
	}
	st.CartView.ToggleSelect(pid)
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) ToggleAll(c echo.Context) error {
	st := storeOf(c)
	st.CartView.ToggleAll()
	return c.JSON(http.StatusOK, cartView(st))
}

func (h *handlers) Checkout(c echo.Context) error {
	st := storeOf(c)
	order, err := cart.Checkout(c.Request().Context(), st.CartView, st.Auth.State().User, st.Orders)
	if err != nil {
		return fail(c, "checkout", err, "failed to place order")
	}

	data := map[string]any{}
	if order != nil {
		data["orderId"] = order.ID
		data["totalAmount"] = order.TotalAmount
	}
	h.publish(c, events.TypeCheckout, data)
	return c.JSON(http.StatusCreated, map[string]any{
		"order":    order,
		"cart":     cartView(st),
		"redirect": ordersPath,
	})
}
