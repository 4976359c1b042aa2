package projection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// ProductQuery is the storefront catalog's filter bar. CategoryID 0 means all
// categories; an unknown Sort keeps the API's order.
type ProductQuery struct {
	CategoryID int64
	Search     string
	Sort       string
	Page       int
}

func Catalog(products []models.Product, q ProductQuery) Page[models.Product] {
	term := normalize(q.Search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
			continue
		}
		if !contains(p.Name, term) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortNameAsc:
		slices.SortStableFunc(out, byName)
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int { return byName(b, a) })
	case SortPriceAsc:
		slices.SortStableFunc(out, byPrice)
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int { return byPrice(b, a) })
	}
	return Paginate(out, q.Page, CatalogPageSize)
}

// Featured is what the home dashboard shows: flagged products first, then
// whatever else is in stock, up to limit.
func Featured(products []models.Product, limit int) []models.Product {
	if limit <= 0 {
		return []models.Product{}
	}
	out := make([]models.Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			return out
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if !p.Featured && InStock(p) {
			out = append(out, p)
		}
	}
	return out
}

// InStock reports whether at least one unit can be ordered.
func InStock(p models.Product) bool { return p.Stock > 0 }

// ClampQuantity bounds the detail page's quantity picker to 1..stock.
func ClampQuantity(q, stock int) int {
	if stock < 1 {
		return 1
	}
	return max(1, min(q, stock))
}

func byName(a, b models.Product) int {
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

func byPrice(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) }

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// contains matches an already normalized term, case-insensitively.
func contains(s, term string) bool {
	return term == "" || strings.Contains(strings.ToLower(s), term)
}
