package models

// ProductRating summarises the reviews left for a product.
type ProductRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product represents a product in the store.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	ImgURL      string        `json:"imgUrl"`
	Rating      ProductRating `json:"rating"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// StockRequest is the body of the admin stock increment call.
// Stock is the number of units to add, not the new total.
type StockRequest struct {
	ID    string `json:"id" validate:"required"`
	Stock int    `json:"stock" validate:"gt=0"`
}
