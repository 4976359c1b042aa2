package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/session"
)

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	CT     string
	Body   string
}

func newFakeAPI(t *testing.T, status int, body string) (*httptest.Server, *[]seenRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []seenRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, seenRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			CT:     r.Header.Get("Content-Type"),
			Body:   string(b),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClient_AttachesBearerFromSessionStore(t *testing.T) {
	t.Parallel()

	srv, seen := newFakeAPI(t, http.StatusOK, `{"data":[]}`)
	c := New(Config{BaseURL: srv.URL + "/"})

	store := session.NewMemoryBackend(0).Scope("v")
	require.NoError(t, store.Set(context.Background(), session.KeyToken, "tok-123"))
	ctx := session.IntoContext(context.Background(), store)

	raw, err := c.Do(ctx, http.MethodGet, "/products", nil, WithQuery("limit", "5"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(raw))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, "Bearer tok-123", got.Auth)
	assert.Equal(t, "/products", got.Path)
	assert.Equal(t, "limit=5", got.Query)
	assert.Equal(t, "application/json", got.CT)
}

func TestClient_AnonymousWithoutToken(t *testing.T) {
	t.Parallel()

	srv, seen := newFakeAPI(t, http.StatusOK, `[]`)
	c := New(Config{BaseURL: srv.URL})

	_, err := c.Do(context.Background(), http.MethodGet, "/categories", nil)
	require.NoError(t, err)

	ctx := session.IntoContext(context.Background(), session.NewMemoryBackend(0).Scope("empty"))
	_, err = c.Do(ctx, http.MethodGet, "/categories", nil)
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	assert.Empty(t, (*seen)[0].Auth)
	assert.Empty(t, (*seen)[1].Auth)
}

func TestClient_SendsJSONBody(t *testing.T) {
	t.Parallel()

	srv, seen := newFakeAPI(t, http.StatusCreated, `{"data":{"id":1}}`)
	c := New(Config{BaseURL: srv.URL})

	_, err := c.Do(context.Background(), http.MethodPost, "/cart", map[string]any{"productId": 1, "quantity": 3})
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*seen)[0].Body), &body))
	assert.EqualValues(t, 1, body["productId"])
	assert.EqualValues(t, 3, body["quantity"])
}

func TestClient_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	raw, err := New(Config{BaseURL: srv.URL}).Do(context.Background(), http.MethodDelete, "/cart", nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClient_StatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
		fields  map[string]string
	}{
		{name: "validation with fields", status: 400, body: `{"message":"invalid input","errors":{"email":"taken"}}`, kind: KindValidation, message: "invalid input", fields: map[string]string{"email": "taken"}},
		{name: "validation with field list", status: 422, body: `{"message":"bad","errors":[{"field":"price","message":"must be >= 0"}]}`, kind: KindValidation, message: "bad", fields: map[string]string{"price": "must be >= 0"}},
		{name: "unauthorized", status: 401, body: `{"error":"token expired"}`, kind: KindUnauthorized, message: "token expired"},
		{name: "forbidden", status: 403, body: `{"message":"admins only"}`, kind: KindForbidden, message: "admins only"},
		{name: "not found", status: 404, body: `not json`, kind: KindNotFound},
		{name: "server", status: 500, body: `{}`, kind: KindServer},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newFakeAPI(t, tt.status, tt.body)
			_, err := New(Config{BaseURL: srv.URL}).Do(context.Background(), http.MethodGet, "/x", nil)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.fields, apiErr.Fields)
			assert.Equal(t, tt.body, string(apiErr.Body))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Config{BaseURL: url}).Do(context.Background(), http.MethodGet, "/products", nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindNotFound, Status: 404, Message: "missing"}
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "missing", Message(err, "x"))
	assert.Equal(t, "x", Message(io.EOF, "x"))
	assert.Nil(t, Fields(io.EOF))
}
