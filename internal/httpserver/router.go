package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	homePath     = "/home/dashboard"
	ordersPath   = "/home/order"
)

// Searcher is the admin product search; *search.Index implements it.
type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
	Replace(ctx context.Context, products []models.Product) error
	Delete(ctx context.Context, productID int64) error
}

type Deps struct {
	API      *api.API
	Sessions session.Backend
	Visitors *store.Registry
	Events   events.Publisher
	// Search is nil when no cluster is configured.
	Search Searcher

	MediaURL     string
	AdminRoles   []string
	CookieSecure bool
	SessionTTL   time.Duration
	// CSRF can be switched off for tests driving the JSON surface directly.
	DisableCSRF bool
	Now         func() time.Time
}

type handlers struct {
	api    *api.API
	events events.Publisher
	search Searcher
}

func Register(e *echo.Echo, d *Deps) error {
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{api: d.API, events: d.Events, search: d.Search}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.Sessions.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "session backend unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})

	toHome := func(c echo.Context) error { return c.Redirect(http.StatusFound, homePath) }
	e.GET("/", toHome)
	e.RouteNotFound("/*", toHome)
	e.GET("/login", func(c echo.Context) error { return c.Redirect(http.StatusFound, loginPath) })
	e.GET("/register", func(c echo.Context) error { return c.Redirect(http.StatusFound, registerPath) })

	if d.MediaURL != "" {
		media, err := newProxy(d.MediaURL, "/media")
		if err != nil {
			return err
		}
		e.GET("/media/*", media)
	}

	base := []echo.MiddlewareFunc{visitor(d.Sessions, d.Visitors, d.CookieSecure, d.SessionTTL)}
	if !d.DisableCSRF {
		base = append(base, csrf.Middleware(csrf.Config{
			Secure:       d.CookieSecure,
			SkipPrefixes: []string{loginPath, registerPath},
		}))
	}
	group := func(prefix string, extra ...echo.MiddlewareFunc) *echo.Group {
		g := e.Group(prefix, append(append([]echo.MiddlewareFunc{}, base...), extra...)...)
		g.RouteNotFound("/*", toHome)
		return g
	}
	expire := func(c echo.Context) error { return storeOf(c).Expire(c.Request().Context()) }
	signedIn := guard.Middleware(guard.Config{LoginPath: loginPath, DefaultPath: homePath, Now: d.Now, OnClear: expire})
	staff := guard.Middleware(guard.Config{Allowed: d.AdminRoles, LoginPath: loginPath, DefaultPath: homePath, Now: d.Now, OnClear: expire})

	auth := group("/auth")
	auth.GET("/login", h.AuthPage)
	auth.GET("/register", h.AuthPage)
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.POST("/logout", h.Logout)
	auth.GET("/session", h.Session)

	home := group("/home")
	home.GET("", toHome)
	home.GET("/dashboard", h.Home)
	home.GET("/product", h.Catalog)
	home.GET("/product/:id", h.ProductDetail)

	home.GET("/cart", h.GetCart, signedIn)
	home.POST("/cart/items", h.AddToCart, signedIn)
	home.PUT("/cart/items/:productId", h.ChangeQuantity, signedIn)
	home.DELETE("/cart/items/:productId", h.RemoveFromCart, signedIn)
	home.DELETE("/cart", h.ClearCart, signedIn)
	home.POST("/cart/select/:productId", h.ToggleSelect, signedIn)
	home.POST("/cart/select-all", h.ToggleAll, signedIn)
	home.POST("/cart/checkout", h.Checkout, signedIn)
	home.GET("/order", h.MyOrders, signedIn)
	home.GET("/profile", h.Profile, signedIn)
	home.PUT("/profile", h.UpdateProfile, signedIn)

	admin := group("/admin", staff)
	admin.GET("", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/admin/dashboard") })
	admin.GET("/dashboard", h.AdminDashboard)

	admin.GET("/products", h.Inventory)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)

	admin.GET("/orders", h.AdminOrders)
	admin.PUT("/orders/:id/approve", h.ApproveOrder)
	admin.PUT("/orders/:id/cancel", h.CancelOrder)

	admin.GET("/users", h.Users)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)

	admin.GET("/categories", h.AdminCategories)
	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	admin.GET("/search", h.Search)

	return nil
}

// publish records activity without holding up the response on failure.
func (h *handlers) publish(c echo.Context, typ string, data map[string]any) {
	ctx := c.Request().Context()
	ev := events.Event{Type: typ, VisitorID: visitorOf(c), Data: data}
	if st := storeOf(c); st != nil {
		if u := st.Auth.State().User; u != nil {
			ev.UserID = formatID(u.ID)
		}
	}
	if err := h.events.PublishEvent(ctx, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", typ, "error", err)
	}
}
