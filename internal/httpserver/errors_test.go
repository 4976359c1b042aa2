package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/forms"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:       "form errors",
			err:        forms.Errors{"email": "is required"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "please check the highlighted fields",
			wantFields: map[string]string{"email": "is required"},
		},
		{
			name: "api validation keeps fields",
			err: fmt.Errorf("create: %w", &apiclient.Error{
				Kind: apiclient.KindValidation, Status: 422, Message: "invalid", Fields: map[string]string{"price": "must be positive"},
			}),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid",
			wantFields: map[string]string{"price": "must be positive"},
		},
		{name: "unauthorized", err: &apiclient.Error{Kind: apiclient.KindUnauthorized, Status: 401, Message: "expired"}, wantStatus: http.StatusUnauthorized, wantMsg: "expired"},
		{name: "forbidden", err: &apiclient.Error{Kind: apiclient.KindForbidden, Status: 403}, wantStatus: http.StatusForbidden, wantMsg: "fallback"},
		{name: "not found", err: &apiclient.Error{Kind: apiclient.KindNotFound, Status: 404, Message: "gone"}, wantStatus: http.StatusNotFound, wantMsg: "gone"},
		{name: "transport", err: &apiclient.Error{Kind: apiclient.KindTransport, Err: context.Canceled}, wantStatus: http.StatusBadGateway, wantMsg: "fallback"},
		{name: "server", err: &apiclient.Error{Kind: apiclient.KindServer, Status: 500, Message: "boom"}, wantStatus: http.StatusBadGateway, wantMsg: "boom"},
		{name: "quantity range", err: cart.ErrQuantityRange, wantStatus: http.StatusBadRequest, wantMsg: cart.ErrQuantityRange.Error()},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantMsg: "fallback"},
		{name: "anything else", err: fmt.Errorf("plain"), wantStatus: http.StatusInternalServerError, wantMsg: "fallback"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, body := classify(tt.err, "fallback")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantFields, body.Fields)
		})
	}
}
