package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

const (
	VisitorCookie = "sf_sid"
	ctxStore      = "store"
)

// visitor identifies the browser by an opaque cookie, scopes the session
// store to it and hands the handler that visitor's state.
func visitor(backend session.Backend, reg *store.Registry, secure bool, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			vid := ""
			if ck, err := c.Cookie(VisitorCookie); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					vid = ck.Value
				}
			}
			if vid == "" {
				vid = uuid.NewString()
			}
			c.SetCookie(&http.Cookie{
				Name:     VisitorCookie,
				Value:    vid,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(ttl.Seconds()),
			})

			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("visitor_id", vid)
			ctx = logging.IntoContext(ctx, l)
			ctx = session.IntoContext(ctx, backend.Scope(vid))
			c.SetRequest(c.Request().WithContext(ctx))

			st := reg.For(vid)
			if err := st.Auth.Restore(ctx); err != nil {
				l.Warn("session_restore_failed", "error", err)
			}
			c.Set(loggingmw.VisitorKey, vid)
			c.Set(ctxStore, st)
			return next(c)
		}
	}
}

func storeOf(c echo.Context) *store.Store {
	st, _ := c.Get(ctxStore).(*store.Store)
	return st
}

func visitorOf(c echo.Context) string {
	vid, _ := c.Get(loggingmw.VisitorKey).(string)
	return vid
}
