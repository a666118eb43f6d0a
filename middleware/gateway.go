// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware only lets through requests that carry the API
// gateway's shared token, as "Bearer <token>" or bare. /health stays open
// for health checks.
func GatewayAuthMiddleware(expectedToken string) fiber.Handler {
	want := []byte(expectedToken)
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			log.Printf("🚫 [GATEWAY_AUTH] no token on %s %s", c.Method(), c.Path())
			return gatewayDenied(c, "Gateway token missing")
		}

		got := []byte(strings.TrimPrefix(header, "Bearer "))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			log.Printf("❌ [GATEWAY_AUTH] bad token on %s %s from %s", c.Method(), c.Path(), c.IP())
			return gatewayDenied(c, "Gateway token invalid")
		}
		return c.Next()
	}
}

func gatewayDenied(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  "GATEWAY_UNAUTHORIZED",
		"kind":  "authorization",
	})
}
