// handlers/app.go
package handlers

import (
	"strings"

	"memeverse/middleware"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Services struct {
	Ledger        *services.LedgerService
	Badges        *services.BadgeService
	Medals        *services.MedalService
	Referrals     *services.ReferralService
	Premium       *services.PremiumService
	Accounts      *services.AccountService
	Users         *services.UserService
	Settings      *services.SettingsService
	Notifications *services.NotificationService
	Social        *services.SocialService
}

type AppConfig struct {
	AllowedOrigins []string
	GatewayToken   string
	JWTSecret      string
	AccessLog      bool
}

// NewApp wires middleware and every route group.
//
// Identity comes from bearer JWTs when a secret is configured, otherwise
// from the gateway's X-User-ID / X-User-Roles headers (guarded by the
// gateway token when one is set).
func NewApp(cfg AppConfig, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	// Credentials cannot be combined with a wildcard origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	if cfg.JWTSecret != "" {
		app.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	} else {
		if cfg.GatewayToken != "" {
			app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))
		}
		app.Use(middleware.UserContextMiddleware())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupUserRoutes(app, svc.Users, svc.Settings)
	SetupLedgerRoutes(app, svc.Ledger, svc.Users)
	SetupBadgeRoutes(app, svc.Badges)
	SetupMedalRoutes(app, svc.Medals)
	SetupReferralRoutes(app, svc.Referrals)
	SetupPremiumRoutes(app, svc.Premium)
	SetupAccountRoutes(app, svc.Accounts)
	SetupNotificationRoutes(app, svc.Notifications, cfg.JWTSecret)
	SetupSocialRoutes(app, svc.Social)

	return app
}
