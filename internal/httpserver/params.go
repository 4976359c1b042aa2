package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseInt64Default(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return def
}

// pathID reads a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		logging.FromContext(c.Request().Context()).Warn("bad_path_param", "status", 400, "param", name, "value", c.Param(name))
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive number")
	}
	return v, nil
}

// bindForm decodes the body into f and validates it.
func bindForm[T any](c echo.Context, f *T) error {
	if err := c.Bind(f); err != nil {
		logging.FromContext(c.Request().Context()).Warn("bind_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return forms.Validate(f)
}
