// handlers/referral_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReferralRoutes(app *fiber.App, referralService *services.ReferralService) {
	app.Post("/referral", middleware.RequireUser(), func(c *fiber.Ctx) error {
		code, link, err := referralService.GenerateCode(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"referralCode": code, "referralLink": link})
	})

	app.Put("/referral", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			ReferralCode string `json:"referralCode"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		res, err := referralService.Redeem(c.UserContext(), middleware.UserID(c), req.ReferralCode)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":         "Referral code applied successfully",
			"bonusToNewUser":  res.BonusToNewUser,
			"bonusToReferrer": res.BonusToReferrer,
			"totalCoins":      res.TotalCoins,
			"referrerName":    res.ReferrerName,
		})
	})

	app.Get("/referral", middleware.RequireUser(), func(c *fiber.Ctx) error {
		stats, err := referralService.Stats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	})
}
