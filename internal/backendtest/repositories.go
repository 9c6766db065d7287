package backendtest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// ErrNotFound is returned by the repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ProductRepository is an in-memory product catalogue.
type ProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewProductRepository creates an empty ProductRepository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products ordered by name.
func (r *ProductRepository) GetAll() []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		if productList[i].Name != productList[j].Name {
			return productList[i].Name < productList[j].Name
		}
		return productList[i].ID < productList[j].ID
	})
	return productList
}

// GetByID returns a product by its ID.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning an ID when missing.
func (r *ProductRepository) Create(product *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
}

// Update applies fn to the stored product under the write lock.
func (r *ProductRepository) Update(id string, fn func(*models.Product) error) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	if err := fn(&product); err != nil {
		return nil, err
	}
	r.products[id] = product
	return &product, nil
}

type userRecord struct {
	session      models.UserSession
	passwordHash []byte
}

// UserRepository stores accounts keyed by ID with an email index.
type UserRepository struct {
	users   map[string]userRecord
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]userRecord),
		byEmail: make(map[string]string),
	}
}

// ErrEmailTaken is returned when registering an email twice.
var ErrEmailTaken = errors.New("email already registered")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account.
func (r *UserRepository) Create(session *models.UserSession, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(session.Email)
	if _, ok := r.byEmail[email]; ok {
		return fmt.Errorf("email '%s': %w", session.Email, ErrEmailTaken)
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	r.users[session.ID] = userRecord{session: *session, passwordHash: passwordHash}
	r.byEmail[email] = session.ID
	return nil
}

func (r *UserRepository) getByEmail(email string) (userRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return userRecord{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return r.users[id], nil
}

// GetByID returns the session of an account.
func (r *UserRepository) GetByID(id string) (*models.UserSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	session := rec.session
	return &session, nil
}

// CartRepository keeps one cart per user.
type CartRepository struct {
	carts map[string]models.Cart
	mu    sync.Mutex
}

// NewCartRepository creates an empty CartRepository.
func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string]models.Cart),
	}
}

// Get returns the user's cart, creating an empty one on first access.
func (r *CartRepository) Get(userID string) models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyCart(r.getLocked(userID))
}

// Update applies fn to the user's cart and recomputes its totals.
func (r *CartRepository) Update(userID string, fn func(*models.Cart) error) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := copyCart(r.getLocked(userID))
	if err := fn(&cart); err != nil {
		return models.Cart{}, err
	}
	recomputeTotals(&cart)
	r.carts[userID] = cart
	return copyCart(cart), nil
}

func (r *CartRepository) getLocked(userID string) models.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		cart = models.Cart{ID: uuid.New().String(), UserID: userID, Items: []models.CartItem{}}
		r.carts[userID] = cart
	}
	return cart
}

func copyCart(c models.Cart) models.Cart {
	return *c.Clone()
}

func recomputeTotals(cart *models.Cart) {
	cart.TotalItemCount = 0
	cart.TotalAmount = 0
	for _, item := range cart.Items {
		cart.TotalItemCount += item.Quantity
		cart.TotalAmount += float64(item.Quantity) * item.Price
	}
}

// OrderRepository stores checked-out carts.
type OrderRepository struct {
	orders []models.Order
	mu     sync.RWMutex
}

// NewOrderRepository creates an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create adds a new order.
func (r *OrderRepository) Create(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders = append(r.orders, *order)
}

// GetAll returns every order in creation order.
func (r *OrderRepository) GetAll() []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Order(nil), r.orders...)
}

// ReviewRepository stores reviews per product.
type ReviewRepository struct {
	reviews map[string][]models.Review
	mu      sync.RWMutex
}

// NewReviewRepository creates an empty ReviewRepository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[string][]models.Review),
	}
}

// Create stores a review and returns the product's rating summary.
func (r *ReviewRepository) Create(review *models.Review) models.ProductRating {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	r.reviews[review.ProductID] = append(r.reviews[review.ProductID], *review)

	var sum int
	list := r.reviews[review.ProductID]
	for _, rv := range list {
		sum += rv.Rating
	}
	return models.ProductRating{Average: float64(sum) / float64(len(list)), Count: len(list)}
}

// GetByProduct returns the reviews of a product, newest first.
func (r *ReviewRepository) GetByProduct(productID string) []models.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.reviews[productID]
	out := make([]models.Review, len(list))
	for i := range list {
		out[len(list)-1-i] = list[i]
	}
	return out
}
