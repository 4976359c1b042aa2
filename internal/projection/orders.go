package projection

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

const StatusAll = "all"

type OrderQuery struct {
	Status string
	Search string
}

// Orders filters by status and by order id or customer name, newest id first.
func Orders(orders []models.Order, q OrderQuery) []models.Order {
	term := normalize(q.Search)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && q.Status != StatusAll && string(o.Status) != q.Status {
			continue
		}
		if term != "" && !strings.Contains(strconv.FormatInt(o.ID, 10), term) && !contains(customerName(o), term) {
			continue
		}
		out = append(out, o)
	}
	slices.SortStableFunc(out, func(a, b models.Order) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func CanApprove(o models.Order) bool { return o.Status == models.OrderPending }

func CanCancel(o models.Order) bool { return o.Status != models.OrderCancelled }

func customerName(o models.Order) string {
	if o.User == nil {
		return ""
	}
	return o.User.Name
}

func Users(users []models.User, search string) []models.User {
	term := normalize(search)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if contains(u.Name, term) || contains(u.Email, term) {
			out = append(out, u)
		}
	}
	return out
}

func Categories(categories []models.Category, search string) []models.Category {
	term := normalize(search)
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if contains(c.Name, term) {
			out = append(out, c)
		}
	}
	return out
}
