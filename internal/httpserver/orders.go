package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/projection"
)

func (h *handlers) MyOrders(c echo.Context) error {
	st := storeOf(c)
	orders, err := st.Orders.FetchMine(c.Request().Context())
	if err != nil {
		return fail(c, "my_orders", err, "failed to load orders")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": projection.Orders(orders, projection.OrderQuery{Status: c.QueryParam("status")}),
	})
}

type adminOrder struct {
	models.Order
	CanApprove bool `json:"canApprove"`
	CanCancel  bool `json:"canCancel"`
}

func withActions(orders []models.Order) []adminOrder {
	out := make([]adminOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, adminOrder{Order: o, CanApprove: projection.CanApprove(o), CanCancel: projection.CanCancel(o)})
	}
	return out
}
