package guard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type Config struct {
	Allowed     []string
	LoginPath   string
	DefaultPath string
	Now         func() time.Time
	// OnClear drops the visitor's session. Defaults to destroying the
	// request's session store.
	OnClear func(c echo.Context) error
}

func Middleware(cfg Config) echo.MiddlewareFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.DefaultPath == "" {
		cfg.DefaultPath = "/home/dashboard"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OnClear == nil {
		cfg.OnClear = destroySession
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var token string
			if s := session.FromContext(ctx); s != nil {
				tok, err := session.Token(ctx, s)
				if err != nil {
					l.Error("guard_session_read_failed", "error", err)
					return echo.NewHTTPError(http.StatusServiceUnavailable, "session storage unavailable")
				}
				token = tok
			}

			d := Evaluate(token, cfg.Now(), cfg.Allowed)
			if d.ClearSession {
				if err := cfg.OnClear(c); err != nil {
					l.Warn("guard_session_clear_failed", "error", err)
				}
			}

			switch d.Outcome {
			case RedirectLogin:
				l.Info("guard_redirect", "to", cfg.LoginPath, "reason", d.Reason, "path", c.Path())
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			case RedirectDefault:
				l.Info("guard_redirect", "to", cfg.DefaultPath, "reason", d.Reason, "role", d.Claims.Role)
				return c.Redirect(http.StatusFound, cfg.DefaultPath)
			}

			c.Set(CtxUserID, d.Claims.UserID())
			c.Set(CtxRole, d.Claims.Role)
			return next(c)
		}
	}
}

func destroySession(c echo.Context) error {
	ctx := c.Request().Context()
	s := session.FromContext(ctx)
	if s == nil {
		return nil
	}
	return session.Destroy(ctx, s)
}
