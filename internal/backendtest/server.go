// Package backendtest runs an in-process, in-memory implementation of the
// storefront REST backend. Tests use it for end-to-end runs of the client and
// `storefront dev-backend` serves it with demo data.
package backendtest

import (
	"fmt"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

// Server is a running fake backend.
type Server struct {
	URL string

	Products *ProductRepository
	Users    *UserRepository
	Carts    *CartRepository
	Orders   *OrderRepository
	Reviews  *ReviewRepository

	app *fiber.App
	ln  net.Listener

	mu      sync.Mutex
	userIDs []string
}

type options struct {
	addr       string
	middleware []fiber.Handler
	requestLog io.Writer
}

// Option configures a Server.
type Option func(*options)

// WithMiddleware runs h before the routes, e.g. to delay or fail requests.
func WithMiddleware(h fiber.Handler) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, h)
	}
}

// WithAddr listens on addr instead of a random loopback port.
func WithAddr(addr string) Option {
	return func(o *options) {
		o.addr = addr
	}
}

// WithRequestLog writes one access log line per request to w.
func WithRequestLog(w io.Writer) Option {
	return func(o *options) {
		o.requestLog = w
	}
}

// Start listens (on a random loopback port unless WithAddr is given) and serves until Close.
func Start(opts ...Option) (*Server, error) {
	o := options{addr: "127.0.0.1:0"}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		Products: NewProductRepository(),
		Users:    NewUserRepository(),
		Carts:    NewCartRepository(),
		Orders:   NewOrderRepository(),
		Reviews:  NewReviewRepository(),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	if o.requestLog != nil {
		app.Use(logger.New(logger.Config{Output: o.requestLog}))
	}
	app.Use(s.recordUserID)
	for _, h := range o.middleware {
		app.Use(h)
	}

	h := &handler{
		products: s.Products,
		users:    s.Users,
		carts:    s.Carts,
		orders:   s.Orders,
		reviews:  s.Reviews,
		validate: validator.New(),
	}
	h.registerRoutes(app)

	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()

	s.app = app
	s.ln = ln
	s.URL = "http://" + ln.Addr().String()
	return s, nil
}

// New starts a Server and shuts it down when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s, err := Start(opts...)
	if err != nil {
		t.Fatalf("start backend: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("stop backend: %v", err)
		}
	})
	return s
}

// Close stops the server.
func (s *Server) Close() error {
	err := s.app.Shutdown()
	// Shutdown only closes listeners already being served.
	_ = s.ln.Close()
	return err
}

func (s *Server) recordUserID(c *fiber.Ctx) error {
	s.mu.Lock()
	s.userIDs = append(s.userIDs, c.Get(userIDHeader))
	s.mu.Unlock()
	return c.Next()
}

// UserIDs returns the user-id header of every request received, in order.
// A request without the header is recorded as "".
func (s *Server) UserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userIDs...)
}

// LastUserID returns the user-id header of the most recent request.
func (s *Server) LastUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.userIDs) == 0 {
		return ""
	}
	return s.userIDs[len(s.userIDs)-1]
}

// SeedProduct adds a product to the catalogue.
func (s *Server) SeedProduct(p models.Product) models.Product {
	s.Products.Create(&p)
	return p
}

// SeedUser registers an account directly.
func (s *Server) SeedUser(email, password, firstName, lastName string, isAdmin bool) (models.UserSession, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.UserSession{}, fmt.Errorf("failed to hash password: %w", err)
	}
	session := models.UserSession{Email: email, FirstName: firstName, LastName: lastName, IsAdmin: isAdmin}
	if err := s.Users.Create(&session, hash); err != nil {
		return models.UserSession{}, err
	}
	return session, nil
}

// SeedDemo fills the catalogue with a few products and creates an admin
// account (admin@example.com / admin) and a shopper (shopper@example.com / shopper).
func (s *Server) SeedDemo() error {
	products := []models.Product{
		{ID: "prod-1", Name: "Laptop", Description: "High performance laptop", Price: 1200.00, Stock: 10},
		{ID: "prod-2", Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Stock: 25},
		{ID: "prod-3", Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Stock: 50},
		{ID: "prod-4", Name: "Ultra Wide Curved Monitor", Description: "34 inch display", Price: 499.00, Stock: 0},
	}
	for _, p := range products {
		s.SeedProduct(p)
	}

	if _, err := s.SeedUser("admin@example.com", "admin", "Store", "Admin", true); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if _, err := s.SeedUser("shopper@example.com", "shopper", "Sam", "Shopper", false); err != nil {
		return fmt.Errorf("failed to seed shopper: %w", err)
	}
	return nil
}
