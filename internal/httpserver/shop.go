package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/projection"
)

const featuredCount = 8

func (h *handlers) Home(c echo.Context) error {
	ctx := c.Request().Context()
	st := storeOf(c)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := st.Products.FetchAll(gctx); return err })
	g.Go(func() error { _, err := st.Categories.FetchAll(gctx); return err })
	if err := g.Wait(); err != nil {
		return fail(c, "home", err, "failed to load the storefront")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"featured":   projection.Featured(st.Products.State().Items, featuredCount),
		"categories": st.Categories.State().Items,
		"user":       st.Auth.State().User,
	})
}

func (h *handlers) Catalog(c echo.Context) error {
	ctx := c.Request().Context()
	st := storeOf(c)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := st.Products.FetchAll(gctx); return err })
	g.Go(func() error { _, err := st.Categories.FetchAll(gctx); return err })
	if err := g.Wait(); err != nil {
		return fail(c, "catalog", err, "failed to load products")
	}

	sort := c.QueryParam("sort")
	if sort == "" {
		sort = projection.SortNameAsc
	}
	q := projection.ProductQuery{
		CategoryID: parseInt64Default(c.QueryParam("category"), 0),
		Search:     c.QueryParam("search"),
		Sort:       sort,
		Page:       parseIntDefault(c.QueryParam("page"), 1),
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":       projection.Catalog(st.Products.State().Items, q),
		"categories": st.Categories.State().Items,
		"query":      map[string]any{"category": q.CategoryID, "search": q.Search, "sort": q.Sort},
	})
}

type productDetail struct {
	Product  *models.Product `json:"product"`
	InStock  bool            `json:"inStock"`
	Quantity int             `json:"quantity"`
}

func (h *handlers) ProductDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := storeOf(c).Products.FetchByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "product_detail", err, "failed to load product")
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, productDetail{
		Product:  p,
		InStock:  projection.InStock(*p),
		Quantity: projection.ClampQuantity(parseIntDefault(c.QueryParam("quantity"), 1), p.Stock),
	})
}
