package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

// fakeShop stands in for the shop API. It signs in whoever posts an email
// of the form <role>@shop.test with that role.
type fakeShop struct {
	*httptest.Server
	logouts atomic.Int32
}

func newFakeShop(t *testing.T) *fakeShop {
	t.Helper()
	f := &fakeShop{}
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret1" {
			write(w, http.StatusUnauthorized, `{"message":"wrong email or password"}`)
			return
		}
		role := strings.SplitN(in.Email, "@", 2)[0]
		tok, err := tokens.Sign(tokens.Claims{
			ID:               float64(7),
			Role:             role,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}, []byte("fake"))
		if err != nil {
			write(w, http.StatusInternalServerError, `{}`)
			return
		}
		body, _ := json.Marshal(map[string]any{"data": map[string]any{
			"token": tok,
			"user":  map[string]any{"id": 7, "email": in.Email, "role": role, "name": "Dana"},
		}})
		write(w, http.StatusOK, string(body))
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logouts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"data":[
			{"id":1,"name":"Kettle","categoryId":1,"price":19.99,"stock":3,"featured":true},
			{"id":2,"name":"Teapot","categoryId":1,"price":25,"stock":0},
			{"id":3,"name":"Mug","categoryId":2,"price":5.5,"stock":40}]}`)
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"categories":[{"id":1,"name":"Kitchen"},{"id":2,"name":"Cups"}]}`)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `[{"id":7,"email":"admin@shop.test","role":"admin"}]`)
	})
	mux.HandleFunc("GET /orders/all", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"data":[
			{"id":1,"totalAmount":100,"status":"approved"},
			{"id":2,"totalAmount":50,"status":"approved"},
			{"id":3,"totalAmount":20,"status":"pending"}]}`)
	})
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			write(w, http.StatusUnauthorized, `{"message":"no token"}`)
			return
		}
		write(w, http.StatusOK, `{"data":{"id":1,"CartItems":[
			{"id":10,"productId":1,"quantity":2,"Product":{"id":1,"name":"Kettle","price":19.99,"stock":3}}]}}`)
	})
	// Stats endpoints are left out on purpose; the dashboard must still render.

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

type harness struct {
	e       *echo.Echo
	shop    *fakeShop
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	shop := newFakeShop(t)
	a := api.New(apiclient.New(apiclient.Config{BaseURL: shop.URL, Timeout: 2 * time.Second}))
	backend := session.NewMemoryBackend(time.Hour)

	e := echo.New()
	err := Register(e, &Deps{
		API:         a,
		Sessions:    backend,
		Visitors:    store.NewRegistry(func(vid string) *store.Store { return store.New(a, backend.Scope(vid)) }),
		AdminRoles:  []string{"admin", "staff"},
		SessionTTL:  time.Hour,
		DisableCSRF: true,
	})
	require.NoError(t, err)
	return &harness{e: e, shop: shop}
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range h.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	if cks := rec.Result().Cookies(); len(cks) > 0 {
		h.cookies = cks
	}
	return rec
}

func (h *harness) login(t *testing.T, role string) {
	t.Helper()
	rec := h.do(http.MethodPost, "/auth/login", `{"email":"`+role+`@shop.test","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAdminAccessByRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     string
		wantCode int
		wantLoc  string
	}{
		{name: "anonymous", wantCode: http.StatusFound, wantLoc: loginPath},
		{name: "customer", role: "user", wantCode: http.StatusFound, wantLoc: homePath},
		{name: "admin", role: "admin", wantCode: http.StatusOK},
		{name: "staff", role: "staff", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			if tt.role != "" {
				h.login(t, tt.role)
			}

			rec := h.do(http.MethodGet, "/admin/dashboard", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
				return
			}

			body := decode(t, rec)
			insight := body["insight"].(map[string]any)
			assert.Equal(t, "150", insight["approvedRevenue"])
			assert.Equal(t, "75", insight["averageTicket"])
			assert.EqualValues(t, 1, insight["pending"])
			assert.EqualValues(t, 2, insight["activeProducts"])
		})
	}
}

func TestCatalogFiltersAndSorts(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/home/product?category=1&sort=price-desc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Teapot", items[0].(map[string]any)["name"])
	assert.Equal(t, "Kettle", items[1].(map[string]any)["name"])
	assert.EqualValues(t, 1, data["totalPages"])
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/auth/login", `{"email":"nope","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	rec = h.do(http.MethodPost, "/auth/login", `{"email":"user@shop.test","password":"wrong12"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "wrong email or password", decode(t, rec)["message"])
}

func TestCartAfterLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/home/cart", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))

	h.login(t, "user")
	rec = h.do(http.MethodGet, "/home/cart", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, "0.00", body["subtotal"])

	rec = h.do(http.MethodPost, "/home/cart/select-all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "39.98", decode(t, rec)["subtotal"])

	rec = h.do(http.MethodPut, "/home/cart/items/1", `{"quantity":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutForgetsSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login(t, "user")

	rec := h.do(http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, h.shop.logouts.Load())

	rec = h.do(http.MethodGet, "/auth/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["isAuthenticated"])

	rec = h.do(http.MethodGet, "/home/profile", "")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestUnknownRoutesGoHome(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	for _, target := range []string{"/", "/nowhere", "/home/missing", "/admin/missing"} {
		rec := h.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusFound, rec.Code, target)
	}
	rec := h.do(http.MethodGet, "/home/missing", "")
	assert.Equal(t, homePath, rec.Header().Get("Location"))
}
