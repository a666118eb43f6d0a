// handlers/user_routes.go
package handlers

import (
	"encoding/json"

	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, settingsService *services.SettingsService) {
	app.Post("/auth/signup", func(c *fiber.Ctx) error {
		var req services.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		user, err := userService.Register(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User created successfully",
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"coins": user.Coins,
			},
		})
	})

	app.Get("/users/search", func(c *fiber.Ctx) error {
		users, err := userService.SearchUsers(c.UserContext(), c.Query("q"), c.QueryInt("limit", 50))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(users)
	})

	app.Get("/users/settings", middleware.RequireUser(), func(c *fiber.Ctx) error {
		settings, err := settingsService.Get(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(settings)
	})

	app.Put("/users/settings", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			Type string          `json:"type" validate:"required"`
			Data json.RawMessage `json:"data" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		settings, err := settingsService.Update(c.UserContext(), middleware.UserID(c), req.Type, req.Data)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Settings updated successfully", "settings": settings})
	})

	app.Get("/users/:id", func(c *fiber.Ctx) error {
		profile, err := userService.Profile(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(profile)
	})
}
