// handlers/premium_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPremiumRoutes(app *fiber.App, premiumService *services.PremiumService) {
	// Catalog is public; status is added for signed-in callers.
	app.Get("/premium", func(c *fiber.Ctx) error {
		resp := fiber.Map{"plans": premiumService.Plans()}
		if userID := middleware.UserID(c); userID != "" {
			status, err := premiumService.Status(c.UserContext(), userID)
			if err != nil {
				return respondError(c, err)
			}
			resp["status"] = status
		}
		return c.JSON(resp)
	})

	app.Post("/premium", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			PlanID string `json:"planId" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		res, err := premiumService.Purchase(c.UserContext(), middleware.UserID(c), req.PlanID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":    "Premium activated successfully",
			"plan":       res.Plan,
			"expiryDate": res.ExpiryDate,
			"newBalance": res.NewBalance,
		})
	})

	app.Delete("/premium", middleware.RequireUser(), func(c *fiber.Ctx) error {
		if err := premiumService.Cancel(c.UserContext(), middleware.UserID(c)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Premium cancelled successfully"})
	})
}
