// Package api holds one accessor per shop API resource. Accessors map a call
// onto method, path and body, normalize the payload through envelope and
// return every failure to the caller.
package api

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/apiclient"
)

// Doer is the request pipeline accessors run on; *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, opts ...apiclient.RequestOption) (json.RawMessage, error)
}

type API struct {
	Auth       *AuthAPI
	Products   *ProductAPI
	Categories *CategoryAPI
	Cart       *CartAPI
	Orders     *OrderAPI
	Users      *UserAPI
	Stats      *StatsAPI
}

func New(c Doer) *API {
	return &API{
		Auth:       &AuthAPI{c: c},
		Products:   &ProductAPI{c: c},
		Categories: &CategoryAPI{c: c},
		Cart:       &CartAPI{c: c},
		Orders:     &OrderAPI{c: c},
		Users:      &UserAPI{c: c},
		Stats:      &StatsAPI{c: c},
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
