package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/models"

	"github.com/agnivade/levenshtein"
)

// ProductService handles the product endpoints.
type ProductService struct {
	client APIClient
}

// NewProductService creates a new ProductService.
func NewProductService(client APIClient) *ProductService {
	return &ProductService{
		client: client,
	}
}

// GetProducts retrieves all products in backend order.
func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.Get(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// AddProductToStock increments the stock of a product by delta. Admin only.
func (s *ProductService) AddProductToStock(ctx context.Context, productID string, delta int) error {
	req := models.StockRequest{ID: productID, Stock: delta}
	if err := s.client.Post(ctx, "/admin/products", req, nil); err != nil {
		return fmt.Errorf("failed to add %d units to product %s: %w", delta, productID, err)
	}
	return nil
}

// SearchProducts fetches the catalogue and filters it by name.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, query), nil
}

type productMatch struct {
	product  models.Product
	exact    bool
	position int
	distance int
}

// FilterProducts ranks products against query. Names containing the query
// come first, ordered by where the match starts; names within a small edit
// distance of the query (or of one of their words) follow, closest first. An
// empty query returns products unchanged.
func FilterProducts(products []models.Product, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}

	maxDistance := len([]rune(query)) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}

	var matches []productMatch
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if idx := strings.Index(name, query); idx >= 0 {
			matches = append(matches, productMatch{product: p, exact: true, position: idx})
			continue
		}

		best := levenshtein.ComputeDistance(query, name)
		for _, word := range strings.Fields(name) {
			if d := levenshtein.ComputeDistance(query, word); d < best {
				best = d
			}
		}
		if best <= maxDistance {
			matches = append(matches, productMatch{product: p, distance: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.exact {
			return a.position < b.position
		}
		return a.distance < b.distance
	})

	out := make([]models.Product, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.product)
	}
	return out
}
