// Package storefront implements the user-facing actions of the shop: the cart
// drawer, the product dialog, the login dialog and the admin page. Each action
// talks to the backend through the services and keeps the session store in
// step with what the backend returned.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/dashboard"
	"storefront/internal/events"
	"storefront/internal/form"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/session"
)

var (
	// ErrLoginRequired is returned by actions that need a signed-in user.
	ErrLoginRequired = errors.New("sign in required")
	// ErrAdminRequired is returned by admin actions for non-admin sessions.
	ErrAdminRequired = errors.New("admin access required")
)

// Storefront bundles the services with the session store.
type Storefront struct {
	store     *session.Store
	products  *services.ProductService
	carts     *services.CartService
	reviews   *services.ReviewService
	orders    *services.OrderService
	sessions  *services.SessionService
	publisher events.Publisher
	logger    *zap.Logger
}

// New creates a Storefront. publisher may be nil to disable activity events.
func New(store *session.Store, client services.APIClient, publisher events.Publisher, logger *zap.Logger) *Storefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Storefront{
		store:     store,
		products:  services.NewProductService(client),
		carts:     services.NewCartService(client),
		reviews:   services.NewReviewService(client),
		orders:    services.NewOrderService(client),
		sessions:  services.NewSessionService(client, store),
		publisher: publisher,
		logger:    logger,
	}
}

// Store returns the session store the actions operate on.
func (s *Storefront) Store() *session.Store {
	return s.store
}

func (s *Storefront) emit(ctx context.Context, t events.Type, userID string, payload map[string]any) {
	events.Emit(ctx, s.publisher, s.logger, events.New(t, userID, payload))
}

// currentUserID returns the signed-in user's id or ErrLoginRequired.
func (s *Storefront) currentUserID() (string, error) {
	current := s.store.Session()
	if current == nil {
		return "", ErrLoginRequired
	}
	return current.ID, nil
}

// Products lists the catalogue.
func (s *Storefront) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.GetProducts(ctx)
}

// SearchProducts lists the catalogue filtered by query.
func (s *Storefront) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.products.SearchProducts(ctx, query)
}

// Product finds one product of the catalogue by id.
func (s *Storefront) Product(ctx context.Context, productID string) (*models.Product, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s not found", productID)
}

// Reviews lists the reviews of a product.
func (s *Storefront) Reviews(ctx context.Context, productID string) ([]models.Review, error) {
	return s.reviews.GetReviews(ctx, productID)
}

// AddToCart adds quantity units of product at its current price. Without a
// session it opens the login dialog on the sign-in tab instead.
func (s *Storefront) AddToCart(ctx context.Context, product models.Product, quantity int) (*models.Cart, error) {
	userID, err := s.currentUserID()
	if err != nil {
		s.store.OpenLoginDialog(session.LoginModeSignIn)
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	cart, err := s.carts.AddToCart(ctx, product.ID, quantity, product.Price)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCart(cart); err != nil {
		return nil, err
	}

	s.emit(ctx, events.CartUpdated, userID, map[string]any{
		"action":    "add",
		"productId": product.ID,
		"quantity":  quantity,
	})
	return cart, nil
}

// RefreshCart replaces the stored cart with the backend's copy.
func (s *Storefront) RefreshCart(ctx context.Context) (*models.Cart, error) {
	if _, err := s.currentUserID(); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart drops a product from the cart. Concurrent removals are not
// serialised: whichever response arrives last is what the store keeps.
func (s *Storefront) RemoveFromCart(ctx context.Context, productID string) (*models.Cart, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.RemoveFromCart(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCart(cart); err != nil {
		return nil, err
	}

	s.emit(ctx, events.CartUpdated, userID, map[string]any{
		"action":    "remove",
		"productId": productID,
	})
	return cart, nil
}

// Checkout submits the stored cart. An empty or missing cart is a no-op that
// returns the cart unchanged. On failure the stored cart is left as it was.
func (s *Storefront) Checkout(ctx context.Context) (*models.Cart, error) {
	cart := s.store.Cart()
	if cart.IsEmpty() {
		return cart, nil
	}
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}

	result, err := s.carts.Checkout(ctx, cart)
	if err != nil {
		s.logger.Error("checkout failed",
			zap.String("cart_id", cart.ID),
			zap.Int("items", cart.TotalItemCount),
			zap.Error(err),
		)
		return nil, err
	}
	if err := s.store.SetCart(result); err != nil {
		return nil, err
	}

	s.emit(ctx, events.CartCheckedOut, userID, map[string]any{
		"cartId":      cart.ID,
		"items":       cart.TotalItemCount,
		"totalAmount": cart.TotalAmount,
	})
	return result, nil
}

// SignIn validates the sign-in form and authenticates. On success the login
// dialog is closed and the form reset.
func (s *Storefront) SignIn(ctx context.Context, f *form.Manager[form.Field]) (services.Destination, error) {
	if !f.ValidateAll() {
		return "", f.Err()
	}

	user, dest, err := s.sessions.SignIn(ctx, strings.TrimSpace(f.Value(form.FieldEmail)), f.Value(form.FieldPassword))
	if err != nil {
		return "", err
	}
	s.store.CloseLoginDialog()
	f.Reset()

	s.emit(ctx, events.SessionSignedIn, user.ID, map[string]any{"destination": string(dest)})
	return dest, nil
}

// SignUp validates the sign-up form and registers the user.
func (s *Storefront) SignUp(ctx context.Context, f *form.Manager[form.Field]) (services.Destination, error) {
	if !f.ValidateAll() {
		return "", f.Err()
	}

	user, dest, err := s.sessions.SignUp(ctx, models.SignUpRequest{
		Email:     strings.TrimSpace(f.Value(form.FieldEmail)),
		Password:  f.Value(form.FieldPassword),
		FirstName: strings.TrimSpace(f.Value(form.FieldFirstName)),
		LastName:  strings.TrimSpace(f.Value(form.FieldLastName)),
	})
	if err != nil {
		return "", err
	}
	s.store.CloseLoginDialog()
	f.Reset()

	s.emit(ctx, events.SessionSignedUp, user.ID, nil)
	return dest, nil
}

// Logout forgets the session and the cart.
func (s *Storefront) Logout(ctx context.Context) error {
	userID, _ := s.currentUserID()
	if err := s.store.Logout(); err != nil {
		return err
	}
	if userID != "" {
		s.emit(ctx, events.SessionLoggedOut, userID, nil)
	}
	return nil
}

// AddReview validates the review form and posts it for productID. Without a
// session it opens the login dialog instead.
func (s *Storefront) AddReview(ctx context.Context, productID string, f *form.Manager[form.Field]) (*models.Review, error) {
	userID, err := s.currentUserID()
	if err != nil {
		s.store.OpenLoginDialog(session.LoginModeSignIn)
		return nil, err
	}
	if !f.ValidateAll() {
		return nil, f.Err()
	}

	review, err := s.reviews.AddReview(ctx, productID, form.Rating(f), strings.TrimSpace(f.Value(form.FieldComment)))
	if err != nil {
		return nil, err
	}
	f.Reset()

	s.emit(ctx, events.ReviewAdded, userID, map[string]any{
		"productId": productID,
		"rating":    review.Rating,
	})
	return review, nil
}

func (s *Storefront) requireAdmin() (string, error) {
	current := s.store.Session()
	if current == nil {
		return "", ErrLoginRequired
	}
	if !current.IsAdmin {
		return "", ErrAdminRequired
	}
	return current.ID, nil
}

// IncreaseStock adds one unit to a product and returns the refreshed catalogue.
func (s *Storefront) IncreaseStock(ctx context.Context, productID string) ([]models.Product, error) {
	userID, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}

	if err := s.products.AddProductToStock(ctx, productID, 1); err != nil {
		s.logger.Error("error updating stock", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}
	s.emit(ctx, events.StockIncreased, userID, map[string]any{
		"productId": productID,
		"delta":     1,
	})

	return s.products.GetProducts(ctx)
}

// Dashboard loads the catalogue and the sales report in parallel and builds
// the admin overview.
func (s *Storefront) Dashboard(ctx context.Context) (dashboard.Dashboard, error) {
	if _, err := s.requireAdmin(); err != nil {
		return dashboard.Dashboard{}, err
	}

	var (
		products []models.Product
		sales    []models.ProductSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.GetProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.orders.GetSalesByProduct(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.Dashboard{}, err
	}
	return dashboard.Build(products, sales), nil
}
