// handlers/account_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(app *fiber.App, accountService *services.AccountService) {
	app.Delete("/user/delete", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			Password string `json:"password"`
		}
		// The body is optional for identity-provider accounts.
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return respondError(c, services.ErrInvalidInput.Wrap(err))
			}
		}
		if _, err := accountService.DeleteAccount(c.UserContext(), middleware.UserID(c), req.Password); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Account deleted successfully"})
	})
}
