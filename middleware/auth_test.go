package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func whoami(c *fiber.Ctx) error {
	roles, _ := c.Locals(LocalUserRoles).([]string)
	return c.JSON(fiber.Map{"id": UserID(c), "roles": roles})
}

func TestUserContextParsesRoles(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware())
	app.Get("/admin", RequireRole("admin"), whoami)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Roles", " user , admin ,")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Roles", "user")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGatewayToken(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("gw-token"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/memes", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"health is open", "/health", "", http.StatusOK},
		{"missing token", "/memes", "", http.StatusUnauthorized},
		{"wrong token", "/memes", "Bearer nope", http.StatusUnauthorized},
		{"bearer token", "/memes", "Bearer gw-token", http.StatusOK},
		{"raw token", "/memes", "gw-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestIdentityFromClaims(t *testing.T) {
	id, roles := identityFromClaims(jwt.MapClaims{"user_id": "a", "sub": "b", "role": " admin "})
	require.Equal(t, "a", id)
	require.Equal(t, []string{"admin"}, roles)

	id, roles = identityFromClaims(jwt.MapClaims{"sub": "b"})
	require.Equal(t, "b", id)
	require.Empty(t, roles)
}
