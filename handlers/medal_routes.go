// handlers/medal_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMedalRoutes(app *fiber.App, medalService *services.MedalService) {
	// With ?userId the user's medals, newest first; otherwise the catalog.
	app.Get("/medals", func(c *fiber.Ctx) error {
		if userID := c.Query("userId"); userID != "" {
			held, err := medalService.UserMedals(c.UserContext(), userID)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(held)
		}
		medals, err := medalService.ListMedals(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(medals)
	})

	app.Post("/medals", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"userId" validate:"required"`
			MedalID string `json:"medalId" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		um, err := medalService.Award(c.UserContext(), req.UserID, req.MedalID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(um)
	})

	app.Post("/admin/medals", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		var req services.MedalInput
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		medal, err := medalService.CreateMedal(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(medal)
	})
}
