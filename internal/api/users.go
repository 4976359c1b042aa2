package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

type UserAPI struct {
	c Doer
}

// UserUpdate is the editable part of a user; Password is sent only when set.
type UserUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Age      int    `json:"age,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}

func (a *UserAPI) List(ctx context.Context) ([]models.User, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Users(raw)
}

func (a *UserAPI) Get(ctx context.Context, userID int64) (*models.User, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/users/"+id(userID), nil)
	if err != nil {
		return nil, err
	}
	return envelope.User(raw)
}

func (a *UserAPI) Update(ctx context.Context, userID int64, in UserUpdate) (*models.User, error) {
	raw, err := a.c.Do(ctx, http.MethodPut, "/users/"+id(userID), in)
	if err != nil || envelope.Empty(raw) {
		return nil, err
	}
	return envelope.User(raw)
}

func (a *UserAPI) Delete(ctx context.Context, userID int64) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/users/"+id(userID), nil)
	return err
}
