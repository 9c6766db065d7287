package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// OrderService handles the admin order endpoints.
type OrderService struct {
	client APIClient
}

// NewOrderService creates a new OrderService.
func NewOrderService(client APIClient) *OrderService {
	return &OrderService{
		client: client,
	}
}

// GetSalesByProduct returns the quantity sold per product. Admin only.
func (s *OrderService) GetSalesByProduct(ctx context.Context) ([]models.ProductSales, error) {
	var sales []models.ProductSales
	if err := s.client.Get(ctx, "/admin/orders", &sales); err != nil {
		return nil, fmt.Errorf("failed to get sales by product: %w", err)
	}
	return sales, nil
}
