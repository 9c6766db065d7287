package models

// CartItem is a line of a cart. Product is expanded by the backend for display.
type CartItem struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

// Cart is the server-authoritative cart of a user. Totals are never computed on
// the client; every mutating call returns the full cart.
type Cart struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Items          []CartItem `json:"items"`
	TotalItemCount int        `json:"totalItemCount"`
	TotalAmount    float64    `json:"totalAmount"`
}

// IsEmpty reports whether c is nil or has no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Clone returns a deep copy of c.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		for i, item := range c.Items {
			if item.Product != nil {
				p := *item.Product
				item.Product = &p
			}
			out.Items[i] = item
		}
	}
	return &out
}

// AddToCartRequest is the body of POST /carts.
type AddToCartRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}
