package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type errorBody struct {
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// fail logs and maps err onto the storefront's HTTP surface. The API's own
// message is shown when it sent one, fallback otherwise.
func fail(c echo.Context, op string, err error, fallback string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx)

	status, body := classify(err, fallback)
	if status == http.StatusUnauthorized {
		// The API no longer accepts the credential; forget it.
		if st := storeOf(c); st != nil {
			if cerr := st.Expire(ctx); cerr != nil {
				l.Warn("session_clear_failed", "error", cerr)
			}
		}
		body.Redirect = loginPath
	}

	if status >= http.StatusInternalServerError {
		l.Error(op+"_failed", "status", status, "reason", body.Message, "error", err)
	} else {
		l.Warn(op+"_failed", "status", status, "reason", body.Message, "error", err)
	}
	return echo.NewHTTPError(status, body)
}

func classify(err error, fallback string) (int, errorBody) {
	var fe forms.Errors
	if errors.As(err, &fe) {
		return http.StatusBadRequest, errorBody{Message: "please check the highlighted fields", Fields: fe}
	}

	switch {
	case errors.Is(err, cart.ErrQuantityRange), errors.Is(err, cart.ErrNothingSelected):
		return http.StatusBadRequest, errorBody{Message: err.Error()}
	case errors.Is(err, cart.ErrUnknownLine):
		return http.StatusNotFound, errorBody{Message: err.Error()}
	case errors.Is(err, cart.ErrProfileIncomplete):
		return http.StatusConflict, errorBody{Message: err.Error(), Redirect: cart.ProfilePath}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorBody{Message: fallback}
	}

	var ae *apiclient.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, errorBody{Message: fallback}
	}
	msg := apiclient.Message(err, fallback)
	switch {
	case apiclient.IsValidation(err):
		return http.StatusBadRequest, errorBody{Message: msg, Fields: apiclient.Fields(err)}
	case apiclient.IsUnauthorized(err):
		return http.StatusUnauthorized, errorBody{Message: msg}
	case apiclient.IsForbidden(err):
		return http.StatusForbidden, errorBody{Message: msg}
	case apiclient.IsNotFound(err):
		return http.StatusNotFound, errorBody{Message: msg}
	case apiclient.IsTransport(err):
		return http.StatusBadGateway, errorBody{Message: fallback}
	default:
		return http.StatusBadGateway, errorBody{Message: msg}
	}
}
