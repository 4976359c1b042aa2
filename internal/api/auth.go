package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

type AuthAPI struct {
	c Doer
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Age      int    `json:"age,omitempty"`
}

// Login returns the session from {data: {token, user}}.
func (a *AuthAPI) Login(ctx context.Context, creds Credentials) (*models.Session, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	sess, err := envelope.Session(raw)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}
	return sess, nil
}

// Register creates the account only; the visitor logs in afterwards.
func (a *AuthAPI) Register(ctx context.Context, in RegisterInput) error {
	_, err := a.c.Do(ctx, http.MethodPost, "/auth/register", in)
	return err
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.c.Do(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}
