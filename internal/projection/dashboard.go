package projection

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

const RecentOrderCount = 5

type Insight struct {
	ApprovedRevenue decimal.Decimal `json:"approvedRevenue"`
	Pending         int             `json:"pending"`
	Approved        int             `json:"approved"`
	Cancelled       int             `json:"cancelled"`
	// AverageTicket is approved revenue over approved orders.
	AverageTicket  decimal.Decimal `json:"averageTicket"`
	ActiveProducts int             `json:"activeProducts"`
	LowStock       int             `json:"lowStock"`
	Users          int             `json:"users"`
}

func Dashboard(users []models.User, products []models.Product, orders []models.Order) Insight {
	in := Insight{
		ApprovedRevenue: decimal.Zero,
		AverageTicket:   decimal.Zero,
		Users:           len(users),
	}
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			in.Pending++
		case models.OrderApproved:
			in.Approved++
			in.ApprovedRevenue = in.ApprovedRevenue.Add(decimal.NewFromFloat(o.TotalAmount))
		case models.OrderCancelled:
			in.Cancelled++
		}
	}
	if in.Approved > 0 {
		in.AverageTicket = in.ApprovedRevenue.Div(decimal.NewFromInt(int64(in.Approved))).Round(2)
	}
	for _, p := range products {
		if InStock(p) {
			in.ActiveProducts++
		}
		if IsLowStock(p) {
			in.LowStock++
		}
	}
	return in
}

// RecentOrders keeps the API's order and takes the first few.
func RecentOrders(orders []models.Order) []models.Order {
	n := min(len(orders), RecentOrderCount)
	out := make([]models.Order, n)
	copy(out, orders[:n])
	return out
}
