package backendtest

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
)

const (
	userIDHeader    = "user-id"
	anonymousUserID = "null"
	localsUser      = "user"
)

// RequireUser resolves the user-id header to an account.
func RequireUser(users *UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(userIDHeader)
		if userID == "" || userID == anonymousUserID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "user-id header is required",
			})
		}

		user, err := users.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unknown user",
				"error":   err.Error(),
			})
		}

		c.Locals(localsUser, user)
		return c.Next()
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *models.UserSession {
	user, _ := c.Locals(localsUser).(*models.UserSession)
	if user == nil {
		return &models.UserSession{}
	}
	return user
}
