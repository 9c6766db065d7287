package services_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_GetProducts(t *testing.T) {
	mockClient := new(MockAPIClient)
	service := services.NewProductService(mockClient)

	expected := []models.Product{
		{ID: "1", Name: "Product A", Price: 10.0, Stock: 100},
		{ID: "2", Name: "Product B", Price: 20.0, Stock: 0},
	}
	mockClient.On("Get", "/products", mock.AnythingOfType("*[]models.Product")).Run(fill(1, expected)).Return(nil).Once()

	products, err := service.GetProducts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockClient.AssertExpectations(t)

	mockClient.On("Get", "/products", mock.Anything).Return(fmt.Errorf("timeout")).Once()
	products, err = service.GetProducts(context.Background())
	assert.Error(t, err)
	assert.Nil(t, products)
	mockClient.AssertExpectations(t)
}

func TestProductService_AddProductToStock(t *testing.T) {
	mockClient := new(MockAPIClient)
	service := services.NewProductService(mockClient)

	mockClient.On("Post", "/admin/products", models.StockRequest{ID: "1", Stock: 1}, nil).Return(nil).Once()
	assert.NoError(t, service.AddProductToStock(context.Background(), "1", 1))
	mockClient.AssertExpectations(t)

	mockClient.On("Post", "/admin/products", models.StockRequest{ID: "1", Stock: 1}, nil).Return(fmt.Errorf("forbidden")).Once()
	err := service.AddProductToStock(context.Background(), "1", 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add 1 units to product 1")
	mockClient.AssertExpectations(t)
}

func TestProductService_SearchProducts(t *testing.T) {
	mockClient := new(MockAPIClient)
	service := services.NewProductService(mockClient)

	catalogue := []models.Product{{ID: "1", Name: "Laptop"}, {ID: "2", Name: "Keyboard"}}
	mockClient.On("Get", "/products", mock.Anything).Run(fill(1, catalogue)).Return(nil).Once()

	products, err := service.SearchProducts(context.Background(), "key")
	assert.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: "2", Name: "Keyboard"}}, products)
	mockClient.AssertExpectations(t)
}

func TestFilterProducts(t *testing.T) {
	catalogue := []models.Product{
		{ID: "1", Name: "Laptop"},
		{ID: "2", Name: "Mechanical Keyboard"},
		{ID: "3", Name: "Wireless Mouse"},
		{ID: "4", Name: "Mouse Pad"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query keeps catalogue", query: "  ", want: []string{"1", "2", "3", "4"}},
		{name: "substring ordered by position", query: "mouse", want: []string{"4", "3"}},
		{name: "case insensitive", query: "LAPTOP", want: []string{"1"}},
		{name: "typo matches a word", query: "keybaord", want: []string{"2"}},
		{name: "prefix of a name", query: "lap", want: []string{"1"}},
		{name: "no match", query: "monitor", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.FilterProducts(catalogue, tt.query)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
