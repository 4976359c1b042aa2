package projection

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func products() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Desk lamp", CategoryID: 1, Price: 25, Stock: 4},
		{ID: 2, Name: "armchair", CategoryID: 2, Price: 300, Stock: 0},
		{ID: 3, Name: "Bookshelf", CategoryID: 2, Price: 120, Stock: 30, Featured: true},
		{ID: 4, Name: "Floor Lamp", CategoryID: 1, Price: 80, Stock: 11},
	}
}

func ids(ps []models.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name     string
		page     int
		wantPage int
		wantLen  int
		wantPrev bool
		wantNext bool
	}{
		{name: "first", page: 1, wantPage: 1, wantLen: 12, wantNext: true},
		{name: "below range", page: -3, wantPage: 1, wantLen: 12, wantNext: true},
		{name: "last", page: 3, wantPage: 3, wantLen: 1, wantPrev: true},
		{name: "beyond range", page: 9, wantPage: 3, wantLen: 1, wantPrev: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Paginate(items, tt.page, CatalogPageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, 25, p.Total)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
			assert.Equal(t, tt.wantNext, p.HasNext)
		})
	}

	empty := Paginate([]int{}, 4, CatalogPageSize)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    ProductQuery
		want []int64
	}{
		{name: "server order", q: ProductQuery{}, want: []int64{1, 2, 3, 4}},
		{name: "name asc ignores case", q: ProductQuery{Sort: SortNameAsc}, want: []int64{2, 3, 1, 4}},
		{name: "name desc", q: ProductQuery{Sort: SortNameDesc}, want: []int64{4, 1, 3, 2}},
		{name: "price asc", q: ProductQuery{Sort: SortPriceAsc}, want: []int64{1, 4, 3, 2}},
		{name: "price desc", q: ProductQuery{Sort: SortPriceDesc}, want: []int64{2, 3, 4, 1}},
		{name: "category", q: ProductQuery{CategoryID: 1}, want: []int64{1, 4}},
		{name: "search", q: ProductQuery{Search: "  LAMP "}, want: []int64{1, 4}},
		{name: "search and category", q: ProductQuery{Search: "lamp", CategoryID: 2}, want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(Catalog(products(), tt.q).Items))
		})
	}
}

func TestCatalog_PageSize(t *testing.T) {
	t.Parallel()

	many := make([]models.Product, 0, 30)
	for i := range 30 {
		many = append(many, models.Product{ID: int64(i + 1), Name: fmt.Sprintf("p%02d", i)})
	}
	p := Catalog(many, ProductQuery{Page: 3})
	assert.Len(t, p.Items, 6)
	assert.Equal(t, int64(25), p.Items[0].ID)
}

func TestInventory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    InventoryQuery
		want []int64
	}{
		{name: "default sorts by name", q: InventoryQuery{}, want: []int64{2, 3, 1, 4}},
		{name: "in stock", q: InventoryQuery{Stock: StockInStock}, want: []int64{3, 1, 4}},
		{name: "low stock", q: InventoryQuery{Stock: StockLow}, want: []int64{1}},
		{name: "out of stock", q: InventoryQuery{Stock: StockOut}, want: []int64{2}},
		{name: "stock desc", q: InventoryQuery{Sort: InventoryByStock}, want: []int64{3, 4, 1, 2}},
		{name: "price desc in category", q: InventoryQuery{Sort: InventoryByPriceDesc, CategoryID: 1}, want: []int64{4, 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(Inventory(products(), tt.q).Items))
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	st := Stats(products())
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 3, st.InStock)
	assert.Equal(t, 1, st.OutOfStock)
	assert.Equal(t, 1, st.LowStock)
	// 25*4 + 120*30 + 80*11
	assert.True(t, st.InventoryValue.Equal(decimal.NewFromInt(4580)), st.InventoryValue.String())
}

func TestOrders(t *testing.T) {
	t.Parallel()

	orders := []models.Order{
		{ID: 3, Status: models.OrderPending, User: &models.User{Name: "Ann Lee"}},
		{ID: 12, Status: models.OrderApproved, User: &models.User{Name: "Bob"}},
		{ID: 7, Status: models.OrderCancelled},
	}

	var got []int64
	for _, o := range Orders(orders, OrderQuery{Status: StatusAll}) {
		got = append(got, o.ID)
	}
	assert.Equal(t, []int64{12, 7, 3}, got)

	pending := Orders(orders, OrderQuery{Status: string(models.OrderPending)})
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)

	byName := Orders(orders, OrderQuery{Search: "ann"})
	require.Len(t, byName, 1)
	assert.Equal(t, int64(3), byName[0].ID)

	byID := Orders(orders, OrderQuery{Search: "12"})
	require.Len(t, byID, 1)
	assert.Equal(t, int64(12), byID[0].ID)

	assert.True(t, CanApprove(orders[0]))
	assert.False(t, CanApprove(orders[1]))
	assert.True(t, CanCancel(orders[1]))
	assert.False(t, CanCancel(orders[2]))
}

func TestUsersAndCategories(t *testing.T) {
	t.Parallel()

	users := []models.User{
		{ID: 1, Name: "Ann", Email: "ann@shop.test"},
		{ID: 2, Name: "Bob", Email: "bob@mail.test"},
	}
	assert.Len(t, Users(users, "SHOP"), 1)
	assert.Len(t, Users(users, ""), 2)

	cats := []models.Category{{ID: 1, Name: "Lighting"}, {ID: 2, Name: "Seating"}}
	got := Categories(cats, "light")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	orders := []models.Order{
		{ID: 1, Status: models.OrderApproved, TotalAmount: 100},
		{ID: 2, Status: models.OrderApproved, TotalAmount: 50.5},
		{ID: 3, Status: models.OrderPending, TotalAmount: 999},
		{ID: 4, Status: models.OrderCancelled, TotalAmount: 10},
		{ID: 5, Status: models.OrderPending},
		{ID: 6, Status: models.OrderPending},
	}
	in := Dashboard([]models.User{{ID: 1}, {ID: 2}}, products(), orders)

	assert.True(t, in.ApprovedRevenue.Equal(decimal.RequireFromString("150.5")))
	assert.True(t, in.AverageTicket.Equal(decimal.RequireFromString("75.25")))
	assert.Equal(t, 3, in.Pending)
	assert.Equal(t, 2, in.Approved)
	assert.Equal(t, 1, in.Cancelled)
	assert.Equal(t, 3, in.ActiveProducts)
	assert.Equal(t, 1, in.LowStock)
	assert.Equal(t, 2, in.Users)

	recent := RecentOrders(orders)
	assert.Len(t, recent, RecentOrderCount)
	assert.Equal(t, int64(1), recent[0].ID)

	assert.True(t, Dashboard(nil, nil, nil).AverageTicket.IsZero())
}

func TestClampQuantity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ClampQuantity(0, 5))
	assert.Equal(t, 5, ClampQuantity(9, 5))
	assert.Equal(t, 3, ClampQuantity(3, 5))
	assert.Equal(t, 1, ClampQuantity(4, 0))
	assert.True(t, InStock(models.Product{Stock: 1}))
	assert.False(t, InStock(models.Product{}))
}

func TestFeatured(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int64{3, 1}, ids(Featured(products(), 2)))
	assert.Empty(t, Featured(products(), 0))
}
