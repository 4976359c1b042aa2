package models

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Age     int    `json:"age,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// Session is replaced wholesale on login and destroyed on logout or expiry.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CategoryID  int64   `json:"categoryId"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Featured    bool    `json:"featured"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Items  []CartItem `json:"items"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	PhoneNumber     string      `json:"phoneNumber,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	User            *User       `json:"user,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64    `json:"id"`
	OrderID   int64    `json:"orderId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

type RevenueSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalOrders  int     `json:"totalOrders"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type TopSellingProduct struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	TotalSold int     `json:"totalSold"`
	Revenue   float64 `json:"revenue"`
}
