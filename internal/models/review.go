package models

import "time"

// Review is a rating left by a user for a product.
type Review struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	ProductID string       `json:"productId"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *UserSession `json:"user,omitempty"`
}

// AddReviewRequest is the body of POST /reviews.
type AddReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}
