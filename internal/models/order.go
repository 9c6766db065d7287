package models

// OrderItem represents a single item within an order.
type OrderItem struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"` // Price at the time of order
	Product   *Product `json:"product,omitempty"`
}

// Order represents a checked-out cart.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
}

// ProductSales is the admin projection of order items aggregated per product.
type ProductSales struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
