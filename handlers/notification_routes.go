// handlers/notification_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notificationService *services.NotificationService, jwtSecret string) {
	app.Get("/notifications/stream", middleware.SSEAuthMiddleware(jwtSecret), notificationService.StreamNotificationsSSE)

	app.Get("/notifications", middleware.RequireUser(), func(c *fiber.Ctx) error {
		notes, err := notificationService.List(c.UserContext(), middleware.UserID(c), c.QueryBool("unread", false))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(notes)
	})

	app.Get("/notifications/counts", middleware.RequireUser(), func(c *fiber.Ctx) error {
		counts, err := notificationService.Counts(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(counts)
	})

	app.Patch("/notifications/read-all", middleware.RequireUser(), func(c *fiber.Ctx) error {
		n, err := notificationService.MarkAllRead(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": n})
	})

	app.Patch("/notifications/:id", middleware.RequireUser(), func(c *fiber.Ctx) error {
		if err := notificationService.MarkRead(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Notification marked as read"})
	})
}
