// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID    = "user_id"
	LocalUserRoles = "user_roles"
)

// UserContextMiddleware copies the identity the gateway resolved
// (X-User-ID, X-User-Roles) into the request locals. Requests without a user
// pass through anonymously; RequireUser guards the routes that need one.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserRoles, roles)
		return c.Next()
	}
}

// UserID returns the authenticated user id or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func HasRole(c *fiber.Ctx, role string) bool {
	roles, _ := c.Locals(LocalUserRoles).([]string)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  "UNAUTHENTICATED",
				"kind":  "authorization",
			})
		}
		return c.Next()
	}
}

func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  "UNAUTHENTICATED",
				"kind":  "authorization",
			})
		}
		if !HasRole(c, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: " + role + " access required",
				"code":  "FORBIDDEN",
				"kind":  "authorization",
			})
		}
		return c.Next()
	}
}
