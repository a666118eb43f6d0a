// handlers/ledger_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/models"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLedgerRoutes(app *fiber.App, ledgerService *services.LedgerService, userService *services.UserService) {
	app.Get("/transactions", middleware.RequireUser(), func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		entries, total, err := ledgerService.History(c.UserContext(), userID, services.HistoryFilter{
			Type:   models.TransactionType(c.Query("type")),
			Limit:  c.QueryInt("limit", 50),
			Offset: c.QueryInt("offset", 0),
		})
		if err != nil {
			return respondError(c, err)
		}
		summary, err := ledgerService.Summarize(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"transactions": entries,
			"total":        total,
			"summary":      summary,
		})
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		board, err := userService.Leaderboard(c.UserContext(), c.QueryInt("limit", 50))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(board)
	})
}
