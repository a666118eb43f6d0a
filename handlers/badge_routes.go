// handlers/badge_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(app *fiber.App, badgeService *services.BadgeService) {
	app.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.ListBadges(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(badges)
	})

	// Progress is awarded by trusted callers only.
	app.Post("/badges", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"userId" validate:"required"`
			BadgeID string `json:"badgeId" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		ub, err := badgeService.AwardProgress(c.UserContext(), req.UserID, req.BadgeID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(ub)
	})

	app.Post("/admin/badges", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		var req services.BadgeInput
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		badge, err := badgeService.CreateBadge(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(badge)
	})

	app.Get("/user/badges", middleware.RequireUser(), func(c *fiber.Ctx) error {
		badges, err := badgeService.UserBadges(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(badges)
	})
}
