package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/envelope"
	"github.com/Skotchmaster/storefront/internal/models"
)

const DefaultTopSellingLimit = 5

type StatsAPI struct {
	c Doer
}

func (a *StatsAPI) Revenue(ctx context.Context) (*models.RevenueSummary, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/stats/revenue", nil)
	if err != nil {
		return nil, err
	}
	if envelope.Empty(raw) {
		return &models.RevenueSummary{}, nil
	}
	return envelope.RevenueSummary(raw)
}

func (a *StatsAPI) MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenue, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/stats/revenue/monthly", nil)
	if err != nil {
		return nil, err
	}
	return envelope.MonthlyRevenue(raw)
}

// TopSelling asks for the best sellers; limit <= 0 means the default of 5.
func (a *StatsAPI) TopSelling(ctx context.Context, limit int) ([]models.TopSellingProduct, error) {
	if limit <= 0 {
		limit = DefaultTopSellingLimit
	}
	raw, err := a.c.Do(ctx, http.MethodGet, "/stats/products/top-selling", nil,
		apiclient.WithQuery("limit", strconv.Itoa(limit)))
	if err != nil {
		return nil, err
	}
	return envelope.TopSelling(raw)
}
