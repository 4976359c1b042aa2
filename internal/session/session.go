// Package session holds each visitor's durable key-value storage: the
// credential under "token" and the cached user record under "user".
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrNotFound = errors.New("session key not found")

// Store is one visitor's storage. Clear without keys removes everything.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

// Backend hands out per-visitor stores.
type Backend interface {
	Scope(visitorID string) Store
	Ping(ctx context.Context) error
}

// Token returns the stored credential or "" when there is none.
func Token(ctx context.Context, s Store) (string, error) {
	tok, err := s.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return tok, err
}

// Load reads the session back. A missing user record is tolerated.
func Load(ctx context.Context, s Store) (*models.Session, error) {
	tok, err := s.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	sess := &models.Session{Token: tok}

	raw, err := s.Get(ctx, KeyUser)
	switch {
	case errors.Is(err, ErrNotFound):
		return sess, nil
	case err != nil:
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	sess.User = &u
	return sess, nil
}

// Save replaces the stored session wholesale.
func Save(ctx context.Context, s Store, sess models.Session) error {
	if err := s.Clear(ctx, KeyToken, KeyUser); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyToken, sess.Token); err != nil {
		return err
	}
	if sess.User == nil {
		return nil
	}
	return SaveUser(ctx, s, sess.User)
}

func SaveUser(ctx context.Context, s Store, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.Set(ctx, KeyUser, string(raw))
}

func Destroy(ctx context.Context, s Store) error {
	return s.Clear(ctx, KeyToken, KeyUser)
}

type ctxKey struct{}

func IntoContext(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx, or nil.
func FromContext(ctx context.Context) Store {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxKey{}).(Store)
	return s
}
