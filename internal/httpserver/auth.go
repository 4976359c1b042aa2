package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/store"
)

type authResponse struct {
	store.AuthState
	Redirect string `json:"redirect,omitempty"`
}

// AuthPage serves the login and register pages' state; a signed-in visitor
// is sent home instead.
func (h *handlers) AuthPage(c echo.Context) error {
	st := storeOf(c).Auth.State()
	if st.Authenticated {
		return c.Redirect(http.StatusFound, homePath)
	}
	return c.JSON(http.StatusOK, authResponse{AuthState: st})
}

func (h *handlers) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, authResponse{AuthState: storeOf(c).Auth.State()})
}

func (h *handlers) Login(c echo.Context) error {
	var f forms.Login
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "login", err)
	}

	st := storeOf(c)
	if _, err := st.Auth.Login(c.Request().Context(), f.Credentials()); err != nil {
		return fail(c, "login", err, "login failed")
	}
	h.publish(c, events.TypeLogin, nil)
	return c.JSON(http.StatusOK, authResponse{AuthState: st.Auth.State(), Redirect: homePath})
}

// Register does not sign the visitor in; they continue at the login page.
func (h *handlers) Register(c echo.Context) error {
	var f forms.Register
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "register", err)
	}

	st := storeOf(c)
	if err := st.Auth.Register(c.Request().Context(), f.Input()); err != nil {
		return fail(c, "register", err, "registration failed")
	}
	h.publish(c, events.TypeRegister, map[string]any{"email": f.Input().Email})
	return c.JSON(http.StatusCreated, authResponse{AuthState: st.Auth.State(), Redirect: loginPath})
}

func (h *handlers) Logout(c echo.Context) error {
	st := storeOf(c)
	h.publish(c, events.TypeLogout, nil)
	if err := st.Logout(c.Request().Context()); err != nil {
		return fail(c, "logout", err, "logout failed")
	}
	return c.JSON(http.StatusOK, authResponse{AuthState: st.Auth.State(), Redirect: loginPath})
}

// formError passes echo errors from binding through and maps validation.
func (h *handlers) formError(c echo.Context, op string, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return fail(c, op, err, "invalid form")
}
