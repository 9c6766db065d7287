package services

import (
	"context"
	"fmt"
	"net/url"

	"storefront/internal/models"
)

const reviewRoute = "/reviews"

// ReviewService wraps the review endpoints.
type ReviewService struct {
	client APIClient
}

// NewReviewService creates a new ReviewService.
func NewReviewService(client APIClient) *ReviewService {
	return &ReviewService{
		client: client,
	}
}

// AddReview posts a review for a product as the current user.
func (s *ReviewService) AddReview(ctx context.Context, productID string, rating int, comment string) (*models.Review, error) {
	req := models.AddReviewRequest{ProductID: productID, Rating: rating, Comment: comment}
	var review models.Review
	if err := s.client.Post(ctx, reviewRoute, req, &review); err != nil {
		return nil, fmt.Errorf("failed to add review for product %s: %w", productID, err)
	}
	return &review, nil
}

// GetReviews lists the reviews of a product.
func (s *ReviewService) GetReviews(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.client.Get(ctx, reviewRoute+"/product/"+url.PathEscape(productID), &reviews); err != nil {
		return nil, fmt.Errorf("failed to get reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}
