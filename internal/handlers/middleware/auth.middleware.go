package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// StaffNameKey is the Fiber locals key carrying the authenticated
	// operator's display name.
	StaffNameKey = "staffName"
)

// RequireAuth validates the bearer session token and stores the staff name
// it carries in the request locals.
func (m *Middleware) RequireAuth() fiber.Handler {
	log := m.log.Function("RequireAuth")

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		staffName, err := m.auth.ValidateToken(tokenParts[1])
		if err != nil {
			log.Info("token validation failed", "path", c.Path(), "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(StaffNameKey, staffName)
		return c.Next()
	}
}

// GetStaffName retrieves the authenticated staff name from the Fiber
// context. Empty when the route skipped RequireAuth.
func GetStaffName(c *fiber.Ctx) string {
	if staffName, ok := c.Locals(StaffNameKey).(string); ok {
		return staffName
	}
	return ""
}
