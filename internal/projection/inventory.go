package projection

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

const LowStockThreshold = 10

const (
	StockAll     = "all"
	StockInStock = "instock"
	StockLow     = "low"
	StockOut     = "out"
)

const (
	InventoryByName      = "name"
	InventoryByPriceAsc  = "priceAsc"
	InventoryByPriceDesc = "priceDesc"
	InventoryByStock     = "stock"
)

type InventoryQuery struct {
	Search     string
	CategoryID int64
	Stock      string
	Sort       string
	Page       int
}

type InventoryStats struct {
	Total          int             `json:"total"`
	InStock        int             `json:"inStock"`
	OutOfStock     int             `json:"outOfStock"`
	LowStock       int             `json:"lowStock"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

func IsLowStock(p models.Product) bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}

func Stats(products []models.Product) InventoryStats {
	st := InventoryStats{Total: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		if p.Stock > 0 {
			st.InStock++
			st.InventoryValue = st.InventoryValue.Add(
				decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Stock))),
			)
		} else {
			st.OutOfStock++
		}
		if IsLowStock(p) {
			st.LowStock++
		}
	}
	return st
}

// Inventory is the admin product table. Unlike the catalog it always sorts,
// by name unless told otherwise.
func Inventory(products []models.Product, q InventoryQuery) Page[models.Product] {
	term := normalize(q.Search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !contains(p.Name, term) {
			continue
		}
		if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
			continue
		}
		if !matchesStock(p, q.Stock) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case InventoryByPriceAsc:
		slices.SortStableFunc(out, byPrice)
	case InventoryByPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int { return byPrice(b, a) })
	case InventoryByStock:
		slices.SortStableFunc(out, func(a, b models.Product) int { return cmp.Compare(b.Stock, a.Stock) })
	default:
		slices.SortStableFunc(out, byName)
	}
	return Paginate(out, q.Page, InventoryPageSize)
}

func matchesStock(p models.Product, filter string) bool {
	switch filter {
	case StockInStock:
		return p.Stock > 0
	case StockLow:
		return IsLowStock(p)
	case StockOut:
		return p.Stock <= 0
	default:
		return true
	}
}
