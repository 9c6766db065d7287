package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartIsEmpty(t *testing.T) {
	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []CartItem{{ProductID: "prod-1", Quantity: 1}}}).IsEmpty())
}

func TestCartCloneIsDeep(t *testing.T) {
	original := &Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []CartItem{
			{ProductID: "prod-1", Quantity: 2, Price: 10, Product: &Product{ID: "prod-1", Name: "Laptop"}},
		},
		TotalItemCount: 2,
		TotalAmount:    20,
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Items[0].Quantity = 5
	clone.Items[0].Product.Name = "Changed"
	assert.Equal(t, 2, original.Items[0].Quantity)
	assert.Equal(t, "Laptop", original.Items[0].Product.Name)

	var nilCart *Cart
	assert.Nil(t, nilCart.Clone())
}

func TestUserSession(t *testing.T) {
	u := &UserSession{ID: "user-1", FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.Equal(t, "Ada", UserSession{FirstName: "Ada"}.FullName())

	clone := u.Clone()
	clone.FirstName = "Grace"
	assert.Equal(t, "Ada", u.FirstName)

	var nilUser *UserSession
	assert.Nil(t, nilUser.Clone())
}

func TestProductInStock(t *testing.T) {
	assert.True(t, Product{Stock: 1}.InStock())
	assert.False(t, Product{Stock: 0}.InStock())
}
