package services

import (
	"context"
	"fmt"
	"net/url"

	"storefront/internal/models"
)

const cartRoute = "/carts"

// CartService wraps the cart endpoints. Every call returns the cart as the
// backend sees it after the operation.
type CartService struct {
	client APIClient
}

// NewCartService creates a new CartService.
func NewCartService(client APIClient) *CartService {
	return &CartService{
		client: client,
	}
}

// AddToCart adds quantity units of a product at the given unit price.
func (s *CartService) AddToCart(ctx context.Context, productID string, quantity int, price float64) (*models.Cart, error) {
	req := models.AddToCartRequest{ProductID: productID, Quantity: quantity, Price: price}
	var cart models.Cart
	if err := s.client.Post(ctx, cartRoute, req, &cart); err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart: %w", productID, err)
	}
	return &cart, nil
}

// GetCart fetches the current user's cart.
func (s *CartService) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.client.Get(ctx, cartRoute, &cart); err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// RemoveFromCart removes every unit of a product from the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, productID string) (*models.Cart, error) {
	var cart models.Cart
	path := cartRoute + "/product/" + url.PathEscape(productID)
	if err := s.client.Delete(ctx, path, &cart); err != nil {
		return nil, fmt.Errorf("failed to remove product %s from cart: %w", productID, err)
	}
	return &cart, nil
}

// Checkout turns the cart into an order. The returned cart is the emptied cart.
func (s *CartService) Checkout(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	var result models.Cart
	if err := s.client.Post(ctx, cartRoute+"/checkout", cart, &result); err != nil {
		return nil, fmt.Errorf("failed to checkout cart: %w", err)
	}
	return &result, nil
}
