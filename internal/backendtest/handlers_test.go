package backendtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	return New(t)
}

// do sends a request through the fiber app without touching the network.
func do(t *testing.T, s *Server, method, path, userID string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAuthSignUpAndSignIn(t *testing.T) {
	s := setupServer(t)

	var created models.UserSession
	status := do(t, s, http.MethodPost, "/auth/signup", "", models.SignUpRequest{
		Email: "ada@example.com", Password: "secret", FirstName: "Ada", LastName: "Lovelace",
	}, &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.IsAdmin)

	status = do(t, s, http.MethodPost, "/auth/signup", "", models.SignUpRequest{
		Email: "ADA@example.com", Password: "x", FirstName: "A", LastName: "L",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var session models.UserSession
	status = do(t, s, http.MethodPost, "/auth/signin", "", models.SignInRequest{Email: "ada@example.com", Password: "secret"}, &session)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, session)

	status = do(t, s, http.MethodPost, "/auth/signin", "", models.SignInRequest{Email: "ada@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var body map[string]any
	status = do(t, s, http.MethodPost, "/auth/signup", "", map[string]string{"email": "not-an-email"}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
}

func TestCartLifecycle(t *testing.T) {
	s := setupServer(t)
	user, err := s.SeedUser("bob@example.com", "pw", "Bob", "Builder", false)
	require.NoError(t, err)
	laptop := s.SeedProduct(models.Product{Name: "Laptop", Price: 1000, Stock: 2})
	mouse := s.SeedProduct(models.Product{Name: "Mouse", Price: 20, Stock: 10})

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/carts", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/carts", "null", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/carts", "ghost", nil, nil))

	var cart models.Cart
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/carts", user.ID, models.AddToCartRequest{ProductID: laptop.ID, Quantity: 1, Price: 1000}, &cart))
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/carts", user.ID, models.AddToCartRequest{ProductID: laptop.ID, Quantity: 1, Price: 1000}, &cart))
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/carts", user.ID, models.AddToCartRequest{ProductID: mouse.ID, Quantity: 3, Price: 20}, &cart))
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.TotalItemCount)
	assert.InDelta(t, 2060.0, cart.TotalAmount, 0.001)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodDelete, "/carts/product/"+mouse.ID, user.ID, nil, &cart))
	assert.Equal(t, 2, cart.TotalItemCount)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/carts/product/"+mouse.ID, user.ID, nil, nil))

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/carts/checkout", user.ID, cart, &cart))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)

	p, err := s.Products.GetByID(laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	require.Len(t, s.Orders.GetAll(), 1)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/carts/checkout", user.ID, cart, nil))
}

func TestCheckout_InsufficientStock(t *testing.T) {
	s := setupServer(t)
	user, err := s.SeedUser("c@example.com", "pw", "C", "D", false)
	require.NoError(t, err)
	a := s.SeedProduct(models.Product{Name: "A", Price: 1, Stock: 5})
	b := s.SeedProduct(models.Product{Name: "B", Price: 1, Stock: 1})

	do(t, s, http.MethodPost, "/carts", user.ID, models.AddToCartRequest{ProductID: a.ID, Quantity: 2, Price: 1}, nil)
	do(t, s, http.MethodPost, "/carts", user.ID, models.AddToCartRequest{ProductID: b.ID, Quantity: 2, Price: 1}, nil)

	assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/carts/checkout", user.ID, nil, nil))

	pa, _ := s.Products.GetByID(a.ID)
	assert.Equal(t, 5, pa.Stock, "no partial deduction")
	assert.Len(t, s.Carts.Get(user.ID).Items, 2)
}

func TestReviewsUpdateRating(t *testing.T) {
	s := setupServer(t)
	user, err := s.SeedUser("r@example.com", "pw", "Rita", "Reviewer", false)
	require.NoError(t, err)
	p := s.SeedProduct(models.Product{Name: "Lamp", Price: 30, Stock: 1})

	var review models.Review
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/reviews", user.ID, models.AddReviewRequest{ProductID: p.ID, Rating: 5, Comment: "great"}, &review))
	require.NotNil(t, review.User)
	assert.Equal(t, "Rita", review.User.FirstName)
	assert.Empty(t, review.User.Email)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/reviews", user.ID, models.AddReviewRequest{ProductID: p.ID, Rating: 2, Comment: "meh"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/reviews", user.ID, models.AddReviewRequest{ProductID: p.ID, Rating: 6}, nil))

	var reviews []models.Review
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/reviews/product/"+p.ID, "", nil, &reviews))
	require.Len(t, reviews, 2)
	assert.Equal(t, "meh", reviews[0].Comment)

	var products []models.Product
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/products", "", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, models.ProductRating{Average: 3.5, Count: 2}, products[0].Rating)
}

func TestAdminRoutes(t *testing.T) {
	s := setupServer(t)
	admin, err := s.SeedUser("admin@example.com", "pw", "Ann", "Admin", true)
	require.NoError(t, err)
	shopper, err := s.SeedUser("s@example.com", "pw", "Sam", "Shopper", false)
	require.NoError(t, err)
	p := s.SeedProduct(models.Product{Name: "Desk", Price: 200, Stock: 1})

	assert.Equal(t, http.StatusForbidden, do(t, s, http.MethodPost, "/admin/products", shopper.ID, models.StockRequest{ID: p.ID, Stock: 1}, nil))

	var updated models.Product
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/admin/products", admin.ID, models.StockRequest{ID: p.ID, Stock: 1}, &updated))
	assert.Equal(t, 2, updated.Stock)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/admin/products", admin.ID, models.StockRequest{ID: "missing", Stock: 1}, nil))

	do(t, s, http.MethodPost, "/carts", shopper.ID, models.AddToCartRequest{ProductID: p.ID, Quantity: 2, Price: 200}, nil)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/carts/checkout", shopper.ID, nil, nil))

	var sales []models.ProductSales
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/admin/orders", admin.ID, nil, &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, p.ID, sales[0].ProductID)
	assert.Equal(t, 2, sales[0].Quantity)
	require.NotNil(t, sales[0].Product)
	assert.Equal(t, "Desk", sales[0].Product.Name)
}

func TestServerRecordsUserIDs(t *testing.T) {
	s := setupServer(t)

	resp, err := http.Get(s.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	do(t, s, http.MethodGet, "/products", "null", nil, nil)
	assert.Equal(t, []string{"", "null"}, s.UserIDs())
	assert.Equal(t, "null", s.LastUserID())
}
