// middleware/jwt.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// JWTMiddleware authenticates bearer tokens signed with secret. Requests
// without an Authorization header continue anonymously.
func JWTMiddleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			if token == nil {
				return jwtError(c, jwt.ErrTokenMalformed)
			}
			claims, _ := token.Claims.(jwt.MapClaims)
			userID, roles := identityFromClaims(claims)
			if userID == "" {
				return jwtError(c, jwt.ErrTokenInvalidClaims)
			}
			c.Locals(LocalUserID, userID)
			c.Locals(LocalUserRoles, roles)
			return c.Next()
		},
		ErrorHandler: jwtError,
	})
}

func identityFromClaims(claims jwt.MapClaims) (string, []string) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	var roles []string
	if role, _ := claims["role"].(string); strings.TrimSpace(role) != "" {
		roles = append(roles, strings.TrimSpace(role))
	}
	return userID, roles
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing or malformed JWT",
			"code":  "MALFORMED_TOKEN",
			"kind":  "validation",
		})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid or expired JWT",
		"code":  "INVALID_TOKEN",
		"kind":  "authorization",
	})
}
