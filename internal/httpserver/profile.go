package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/models"
)

func (h *handlers) Profile(c echo.Context) error {
	u := storeOf(c).Auth.State().User
	if u == nil {
		return c.Redirect(http.StatusFound, loginPath)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

// UpdateProfile edits the visitor's own record. The role is never taken from
// this form.
func (h *handlers) UpdateProfile(c echo.Context) error {
	var f forms.Profile
	if err := bindForm(c, &f); err != nil {
		return h.formError(c, "update_profile", err)
	}
	f.Role = ""

	ctx := c.Request().Context()
	st := storeOf(c)
	current := st.Auth.State().User
	if current == nil {
		return c.Redirect(http.StatusFound, loginPath)
	}

	in := f.Update()
	updated, err := h.api.Users.Update(ctx, current.ID, in)
	if err != nil {
		return fail(c, "update_profile", err, "failed to update profile")
	}
	if updated == nil {
		updated = mergeUser(*current, f)
	}
	if err := st.Auth.UpdateCurrentUser(ctx, updated); err != nil {
		return fail(c, "update_profile", err, "failed to update profile")
	}
	return c.JSON(http.StatusOK, map[string]any{"user": st.Auth.State().User})
}

// mergeUser applies the submitted form to u when the API answered without a
// record.
func mergeUser(u models.User, f forms.Profile) *models.User {
	in := f.Update()
	u.Name = in.Name
	u.Email = in.Email
	u.Phone = in.Phone
	u.Address = in.Address
	u.Age = in.Age
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	return &u
}
