package services_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReviewService_AddReview(t *testing.T) {
	mockClient := new(MockAPIClient)
	service := services.NewReviewService(mockClient)

	created := models.Review{ID: "r1", ProductID: "p1", Rating: 4, Comment: "solid", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	body := models.AddReviewRequest{ProductID: "p1", Rating: 4, Comment: "solid"}
	mockClient.On("Post", "/reviews", body, mock.AnythingOfType("*models.Review")).Run(fill(2, created)).Return(nil).Once()

	review, err := service.AddReview(context.Background(), "p1", 4, "solid")
	assert.NoError(t, err)
	assert.Equal(t, &created, review)
	mockClient.AssertExpectations(t)
}

func TestReviewService_GetReviews(t *testing.T) {
	mockClient := new(MockAPIClient)
	service := services.NewReviewService(mockClient)

	expected := []models.Review{{ID: "r1", ProductID: "p1"}, {ID: "r2", ProductID: "p1"}}
	mockClient.On("Get", "/reviews/product/p1", mock.AnythingOfType("*[]models.Review")).Run(fill(1, expected)).Return(nil).Once()

	reviews, err := service.GetReviews(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, expected, reviews)
	mockClient.AssertExpectations(t)
}
