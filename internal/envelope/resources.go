package envelope

import "github.com/Skotchmaster/storefront/internal/models"

func Products(raw []byte) ([]models.Product, error) {
	return List[models.Product](raw, "products")
}

func Product(raw []byte) (*models.Product, error) {
	return Object[models.Product](raw, "product")
}

func Categories(raw []byte) ([]models.Category, error) {
	return List[models.Category](raw, "categories")
}

func Category(raw []byte) (*models.Category, error) {
	return Object[models.Category](raw, "category")
}

func Users(raw []byte) ([]models.User, error) {
	return List[models.User](raw, "users")
}

func User(raw []byte) (*models.User, error) {
	return Object[models.User](raw, "user")
}

// Orders reads the order list; each order's lines may arrive under "items"
// or "OrderItems".
func Orders(raw []byte) ([]models.Order, error) {
	v, err := parse(raw)
	if err != nil {
		return []models.Order{}, err
	}
	arr := findArray(v, []string{"orders"})
	out := make([]models.Order, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return []models.Order{}, ErrUnexpectedShape
		}
		o, err := order(m)
		if err != nil {
			return []models.Order{}, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func Order(raw []byte) (*models.Order, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := findObject(v, []string{"order"})
	if !ok {
		return nil, ErrUnexpectedShape
	}
	return order(obj)
}

func order(obj map[string]any) (*models.Order, error) {
	var o models.Order
	if err := decode(obj, &o); err != nil {
		return nil, err
	}
	o.Items = nil
	if lines := findKeyed(obj, []string{"OrderItems", "items"}); len(lines) > 0 {
		if err := decode(lines, &o.Items); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// Session reads the login/register response, {data: {token, user}}.
func Session(raw []byte) (*models.Session, error) {
	s, err := Object[models.Session](raw)
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, ErrUnexpectedShape
	}
	return s, nil
}

// Cart accepts the cart object bare, under "data" or under "cart", with its
// lines under "items" or "CartItems". A bare array is read as the lines.
// An absent cart is an empty one.
func Cart(raw []byte) (*models.Cart, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{Items: []models.CartItem{}}
	if lines, ok := v.([]any); ok {
		return cart, decodeLines(lines, cart)
	}

	obj, ok := findObject(v, []string{"cart"})
	if !ok {
		return cart, nil
	}
	if err := decode(obj, cart); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	lines := findKeyed(obj, []string{"CartItems", "items"})
	return cart, decodeLines(lines, cart)
}

func decodeLines(lines []any, cart *models.Cart) error {
	if len(lines) == 0 {
		return nil
	}
	return decode(lines, &cart.Items)
}

func RevenueSummary(raw []byte) (*models.RevenueSummary, error) {
	return Object[models.RevenueSummary](raw, "revenue")
}

func MonthlyRevenue(raw []byte) ([]models.MonthlyRevenue, error) {
	return List[models.MonthlyRevenue](raw, "monthly", "revenue")
}

func TopSelling(raw []byte) ([]models.TopSellingProduct, error) {
	return List[models.TopSellingProduct](raw, "products", "topSelling")
}
