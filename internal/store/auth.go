package store

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AuthSource interface {
	Login(ctx context.Context, creds api.Credentials) (*models.Session, error)
	Register(ctx context.Context, in api.RegisterInput) error
	Logout(ctx context.Context) error
}

type AuthState struct {
	Token         string       `json:"-"`
	User          *models.User `json:"user"`
	Authenticated bool         `json:"isAuthenticated"`
	Lifecycle
}

// AuthSlice mirrors the visitor's session. Writes go to the session store
// first so a reload sees the same session.
type AuthSlice struct {
	mu       sync.Mutex
	st       AuthState
	src      AuthSource
	sessions session.Store
	restored bool
}

func NewAuth(src AuthSource, sessions session.Store) *AuthSlice {
	return &AuthSlice{st: AuthState{Lifecycle: idle()}, src: src, sessions: sessions}
}

func (a *AuthSlice) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.st
	if a.st.User != nil {
		u := *a.st.User
		out.User = &u
	}
	return out
}

func (a *AuthSlice) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.Error = ""
}

// Restore loads the stored session once per slice, as a page load would.
func (a *AuthSlice) Restore(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.restored {
		return nil
	}
	sess, err := session.Load(ctx, a.sessions)
	if errors.Is(err, session.ErrNotFound) {
		a.restored = true
		return nil
	}
	if err != nil {
		return err
	}
	a.st.Token = sess.Token
	a.st.User = sess.User
	a.st.Authenticated = sess.Token != ""
	a.restored = true
	return nil
}

// Login stores the session only once the request is still live and the API
// accepted the credentials, so a cancelled login leaves nothing behind.
func (a *AuthSlice) Login(ctx context.Context, creds api.Credentials) (*models.Session, error) {
	sess, err := dispatch(ctx, &a.mu, &a.st.Lifecycle, "login failed", func(ctx context.Context) (*models.Session, error) {
		sess, err := a.src.Login(ctx, creds)
		if err == nil && sess == nil {
			err = envelope.ErrUnexpectedShape
		}
		return sess, err
	}, func(*models.Session) {})
	if err != nil {
		a.mu.Lock()
		a.st.Authenticated = false
		a.mu.Unlock()
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		a.st = AuthState{Lifecycle: idle()}
		return nil, err
	}
	if err := session.Save(ctx, a.sessions, *sess); err != nil {
		// Save may have cleared the old keys before failing.
		if derr := session.Destroy(context.WithoutCancel(ctx), a.sessions); derr != nil {
			logging.FromContext(ctx).Warn("session_clear_failed", "error", derr)
		}
		a.st = AuthState{Lifecycle: idle()}
		a.st.reject("login failed")
		return nil, err
	}
	a.st.Token = sess.Token
	if sess.User != nil {
		u := *sess.User
		a.st.User = &u
	} else {
		a.st.User = nil
	}
	a.st.Authenticated = true
	a.restored = true
	return sess, nil
}

func (a *AuthSlice) Register(ctx context.Context, in api.RegisterInput) error {
	return dispatchErr(ctx, &a.mu, &a.st.Lifecycle, "registration failed",
		func(ctx context.Context) error { return a.src.Register(ctx, in) },
		func() {},
	)
}

// Logout always forgets the local session; a failed remote logout is only
// logged, the credential is gone either way.
func (a *AuthSlice) Logout(ctx context.Context) error {
	if err := a.src.Logout(ctx); err != nil {
		logging.FromContext(ctx).Warn("logout_remote_failed", "error", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.st = AuthState{Lifecycle: idle()}
	a.restored = true
	return session.Destroy(ctx, a.sessions)
}

// Expire drops the session after the guard found the credential unusable.
func (a *AuthSlice) Expire(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Token = ""
	a.st.User = nil
	a.st.Authenticated = false
	return session.Destroy(ctx, a.sessions)
}

// UpdateCurrentUser replaces the cached user with the API's copy.
func (a *AuthSlice) UpdateCurrentUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := *u
	a.st.User = &cp
	return session.SaveUser(ctx, a.sessions, &cp)
}
