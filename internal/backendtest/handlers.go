package backendtest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

type handler struct {
	products *ProductRepository
	users    *UserRepository
	carts    *CartRepository
	orders   *OrderRepository
	reviews  *ReviewRepository
	validate *validator.Validate
}

func (h *handler) registerRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/signup", h.handleSignUp)
	auth.Post("/signin", h.handleSignIn)

	router.Get("/products", h.handleGetProducts)
	router.Get("/reviews/product/:id", h.handleGetReviews)

	user := RequireUser(h.users)
	router.Get("/carts", user, h.handleGetCart)
	router.Post("/carts", user, h.handleAddToCart)
	router.Post("/carts/checkout", user, h.handleCheckout)
	router.Delete("/carts/product/:id", user, h.handleRemoveFromCart)
	router.Post("/reviews", user, h.handleAddReview)

	admin := router.Group("/admin", user, RequireAdmin())
	admin.Post("/products", h.handleAddStock)
	admin.Get("/orders", h.handleSalesByProduct)
}

// parse reads and validates a request body, writing the 400 response itself.
func (h *handler) parse(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

func notFound(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": err.Error(),
	})
}

func (h *handler) handleSignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	session := models.UserSession{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.users.Create(&session, hash); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *handler) handleSignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	rec, err := h.users.getByEmail(req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(req.Password))
	}
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}
	return c.JSON(rec.session)
}

func (h *handler) handleGetProducts(c *fiber.Ctx) error {
	return c.JSON(h.products.GetAll())
}

func (h *handler) handleGetReviews(c *fiber.Ctx) error {
	productID := c.Params("id")
	if _, err := h.products.GetByID(productID); err != nil {
		return notFound(c, err)
	}
	return c.JSON(h.reviews.GetByProduct(productID))
}

func (h *handler) handleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.carts.Get(currentUser(c).ID))
}

func (h *handler) handleAddToCart(c *fiber.Ctx) error {
	var req models.AddToCartRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	product, err := h.products.GetByID(req.ProductID)
	if err != nil {
		return notFound(c, err)
	}

	cart, err := h.carts.Update(currentUser(c).ID, func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == req.ProductID {
				cart.Items[i].Quantity += req.Quantity
				cart.Items[i].Price = req.Price
				cart.Items[i].Product = product
				return nil
			}
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     req.Price,
			Product:   product,
		})
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (h *handler) handleRemoveFromCart(c *fiber.Ctx) error {
	productID := c.Params("id")
	cart, err := h.carts.Update(currentUser(c).ID, func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("product %s is not in the cart: %w", productID, ErrNotFound)
	})
	if err != nil {
		return notFound(c, err)
	}
	return c.JSON(cart)
}

var errInsufficientStock = errors.New("insufficient stock")

func (h *handler) handleCheckout(c *fiber.Ctx) error {
	var order models.Order
	cart, err := h.carts.Update(currentUser(c).ID, func(cart *models.Cart) error {
		if len(cart.Items) == 0 {
			return errors.New("cart is empty")
		}
		for _, item := range cart.Items {
			p, err := h.products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < item.Quantity {
				return fmt.Errorf("product %s: %w", p.ID, errInsufficientStock)
			}
		}
		for _, item := range cart.Items {
			if _, err := h.products.Update(item.ProductID, func(p *models.Product) error {
				p.Stock -= item.Quantity
				return nil
			}); err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		order.UserID = cart.UserID
		order.TotalAmount = cart.TotalAmount
		cart.Items = []models.CartItem{}
		return nil
	})
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, errInsufficientStock) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}

	h.orders.Create(&order)
	return c.JSON(cart)
}

func (h *handler) handleAddReview(c *fiber.Ctx) error {
	var req models.AddReviewRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}
	if _, err := h.products.GetByID(req.ProductID); err != nil {
		return notFound(c, err)
	}

	user := currentUser(c)
	author := *user
	author.Email = ""
	review := models.Review{
		UserID:    user.ID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		User:      &author,
	}
	rating := h.reviews.Create(&review)
	if _, err := h.products.Update(req.ProductID, func(p *models.Product) error {
		p.Rating = rating
		return nil
	}); err != nil {
		return notFound(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *handler) handleAddStock(c *fiber.Ctx) error {
	var req models.StockRequest
	if ok, err := h.parse(c, &req); !ok {
		return err
	}

	product, err := h.products.Update(req.ID, func(p *models.Product) error {
		p.Stock += req.Stock
		return nil
	})
	if err != nil {
		return notFound(c, err)
	}
	return c.JSON(product)
}

func (h *handler) handleSalesByProduct(c *fiber.Ctx) error {
	totals := make(map[string]int)
	for _, order := range h.orders.GetAll() {
		for _, item := range order.Items {
			totals[item.ProductID] += item.Quantity
		}
	}

	sales := make([]models.ProductSales, 0, len(totals))
	for productID, quantity := range totals {
		s := models.ProductSales{ProductID: productID, Quantity: quantity}
		if p, err := h.products.GetByID(productID); err == nil {
			s.Product = p
		}
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ProductID < sales[j].ProductID })
	return c.JSON(sales)
}
