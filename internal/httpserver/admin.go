package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/projection"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const searchPageSize = 20

type salesFigures struct {
	Revenue    *models.RevenueSummary     `json:"revenue,omitempty"`
	Monthly    []models.MonthlyRevenue    `json:"monthly,omitempty"`
	TopSelling []models.TopSellingProduct `json:"topSelling,omitempty"`
}

func (h *handlers) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	st := storeOf(c)

	var users []models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = h.api.Users.List(gctx); return err })
	g.Go(func() error { _, err := st.Products.FetchAll(gctx); return err })
	g.Go(func() error { _, err := st.Orders.FetchAll(gctx); return err })
	if err := g.Wait(); err != nil {
		return fail(c, "admin_dashboard", err, "failed to load dashboard")
	}

	orders := st.Orders.State().Items
	return c.JSON(http.StatusOK, map[string]any{
		"insight": projection.Dashboard(users, st.Products.State().Items, orders),
		"recent":  projection.RecentOrders(orders),
		"sales":   h.sales(c),
	})
}

// sales collects the API's revenue figures. They decorate the dashboard, so
// a failing endpoint leaves its part empty.
func (h *handlers) sales(c echo.Context) salesFigures {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx)

	var out salesFigures
	var g errgroup.Group
	g.Go(func() error {
		r, err := h.api.Stats.Revenue(ctx)
		if err != nil {
			l.Warn("stats_revenue_failed", "error", err)
			return nil
		}
		out.Revenue = r
		return nil
	})
	g.Go(func() error {
		m, err := h.api.Stats.MonthlyRevenue(ctx)
		if err != nil {
			l.Warn("stats_monthly_failed", "error", err)
			return nil
		}
		out.Monthly = m
		return nil
	})
	g.Go(func() error {
		t, err := h.api.Stats.TopSelling(ctx, api.DefaultTopSellingLimit)
		if err != nil {
			l.Warn("stats_top_selling_failed", "error", err)
			return nil
		}
		out.TopSelling = t
		return nil
	})
	_ = g.Wait()
	return out
}

func (h *handlers) Inventory(c echo.Context) error {
	ctx := c.Request().Context()
	st := storeOf(c)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := st.Products.FetchAll(gctx); return err })
	g.Go(func() error { _, err := st.Categories.FetchAll(gctx); return err })
	if err := g.Wait(); err != nil {
		return fail(c, "inventory", err, "failed to load products")
	}

	products := st.Products.State().Items
	q := projection.InventoryQuery{
		Search:     c.QueryParam("search"),
		CategoryID: parseInt64Default(c.QueryParam("category"), 0),
		Stock:      c.QueryParam("stock"),
		Sort:       c.QueryParam("sort"),
		Page:       parseIntDefault(c.QueryParam("page"), 1),
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":       projection.Inventory(products, q),
		"stats":      projection.Stats(products),
		"categories": st.Categories.State().Items,
	})
}

func (h *handlers) CreateProduct(c echo.Context) error {
	var f forms.Product
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "create_product", err)
	}
	created, err := storeOf(c).Products.Create(c.Request().Context(), f.Model(0))
	if err != nil {
		return fail(c, "create_product", err, "failed to create product")
	}
	h.reindex(c, *created)
	return c.JSON(http.StatusCreated, created)
}

func (h *handlers) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var f forms.Product
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "update_product", err)
	}
	updated, err := storeOf(c).Products.Update(c.Request().Context(), id, f.Model(id))
	if err != nil {
		return fail(c, "update_product", err, "failed to update product")
	}
	h.reindex(c, *updated)
	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := storeOf(c).Products.Delete(ctx, id); err != nil {
		return fail(c, "delete_product", err, "failed to delete product")
	}
	if h.search != nil {
		if err := h.search.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// reindex keeps the search index close behind product writes; the periodic
// job repairs anything missed here.
func (h *handlers) reindex(c echo.Context, p models.Product) {
	if h.search == nil || p.ID == 0 {
		return
	}
	ctx := c.Request().Context()
	if err := h.search.Replace(ctx, []models.Product{p}); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func (h *handlers) AdminOrders(c echo.Context) error {
	st := storeOf(c)
	if _, err := st.Orders.FetchAll(c.Request().Context()); err != nil {
		return fail(c, "admin_orders", err, "failed to load orders")
	}
	q := projection.OrderQuery{Status: c.QueryParam("status"), Search: c.QueryParam("search")}
	return c.JSON(http.StatusOK, map[string]any{
		"items": withActions(projection.Orders(st.Orders.State().Items, q)),
	})
}

func (h *handlers) ApproveOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := storeOf(c).Orders.Approve(c.Request().Context(), id)
	if err != nil {
		return fail(c, "approve_order", err, "failed to approve order")
	}
	h.publish(c, events.TypeOrderApproved, map[string]any{"orderId": id})
	return c.JSON(http.StatusOK, map[string]any{"order": order, "status": models.OrderApproved})
}

func (h *handlers) CancelOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := storeOf(c).Orders.Cancel(c.Request().Context(), id)
	if err != nil {
		return fail(c, "cancel_order", err, "failed to cancel order")
	}
	h.publish(c, events.TypeOrderCanceled, map[string]any{"orderId": id})
	return c.JSON(http.StatusOK, map[string]any{"order": order, "status": models.OrderCancelled})
}

func (h *handlers) Users(c echo.Context) error {
	users, err := h.api.Users.List(c.Request().Context())
	if err != nil {
		return fail(c, "list_users", err, "failed to load users")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": projection.Users(users, c.QueryParam("search"))})
}

func (h *handlers) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var f forms.Profile
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "update_user", err)
	}

	ctx := c.Request().Context()
	updated, err := h.api.Users.Update(ctx, id, f.Update())
	if err != nil {
		return fail(c, "update_user", err, "failed to update user")
	}
	if updated == nil {
		updated = mergeUser(models.User{ID: id}, f)
	}

	st := storeOf(c)
	if me := st.Auth.State().User; me != nil && me.ID == id {
		if err := st.Auth.UpdateCurrentUser(ctx, updated); err != nil {
			logging.FromContext(ctx).Warn("session_user_update_failed", "error", err)
		}
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if me := storeOf(c).Auth.State().User; me != nil && me.ID == id {
		return echo.NewHTTPError(http.StatusConflict, errorBody{Message: "you cannot delete your own account"})
	}
	if err := h.api.Users.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "delete_user", err, "failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) AdminCategories(c echo.Context) error {
	st := storeOf(c)
	if _, err := st.Categories.FetchAll(c.Request().Context()); err != nil {
		return fail(c, "admin_categories", err, "failed to load categories")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": projection.Categories(st.Categories.State().Items, c.QueryParam("search")),
	})
}

func (h *handlers) CreateCategory(c echo.Context) error {
	var f forms.Category
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "create_category", err)
	}
	created, err := storeOf(c).Categories.Create(c.Request().Context(), f.Model(0))
	if err != nil {
		return fail(c, "create_category", err, "failed to create category")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *handlers) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var f forms.Category
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "update_category", err)
	}
	updated, err := storeOf(c).Categories.Update(c.Request().Context(), id, f.Model(id))
	if err != nil {
		return fail(c, "update_category", err, "failed to update category")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := storeOf(c).Categories.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "delete_category", err, "failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) Search(c echo.Context) error {
	if h.search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, errorBody{Message: "search is not configured"})
	}
	page := max(parseIntDefault(c.QueryParam("page"), 1), 1)
	total, items, err := h.search.Search(c.Request().Context(), c.QueryParam("q"), (page-1)*searchPageSize, searchPageSize)
	if err != nil {
		return fail(c, "search", err, "search failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"total": total, "page": page, "items": items})
}
