package domain

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Spec is a single display attribute of a product. Order matters for
// rendering, so specifications are a slice, not a map.
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	// OriginalPrice anchors a displayed discount; zero means none.
	// Never used in any computation.
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured"`
	Specs         []Spec    `json:"specifications,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// CartLine references a product by id; it never owns product data.
type CartLine struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of product fields taken at commit time.
// Later catalog edits must not change it.
type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID            string      `json:"id"`
	Date          time.Time   `json:"date"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	Items         []OrderItem `json:"items"`
	CustomerName  string      `json:"customerName,omitempty"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
}

type ProductSales struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type SalesReport struct {
	TotalSales        float64            `json:"totalSales"`
	TotalOrders       int                `json:"totalOrders"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	SalesByCategory   map[string]float64 `json:"salesByCategory"`
	TopProducts       []ProductSales     `json:"topProducts"`
}

type User struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name" db:"name"`
	Hash  string `json:"-" db:"password_hash"`
	Role  string `json:"role" db:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == "ADMIN" }
