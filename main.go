package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memeverse/config"
	"memeverse/database"
	"memeverse/handlers"
	"memeverse/services"
	"memeverse/utils"
	"memeverse/workers"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}
	if err := database.SeedBadges(db); err != nil {
		log.Fatal("failed to seed badges:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var media services.MediaCleaner
	if cfg.R2.Enabled() {
		store, err := utils.NewR2Store(ctx, cfg.R2.AccountID, cfg.R2.AccessKeyID, cfg.R2.AccessKeySecret, cfg.R2.BucketName, cfg.R2.CDNBaseURL)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		cleanup := workers.NewMediaCleanupWorker(store, 256)
		go cleanup.Start(ctx)
		media = cleanup
	} else {
		log.Println("⚠️  R2 credentials not set, meme media will not be removed on account deletion")
	}

	premiumService := services.NewPremiumService(db)
	if _, err := premiumService.StartExpirySweeper(ctx, cfg.PremiumSweepInterval); err != nil {
		log.Fatal("failed to start premium sweeper:", err)
	}

	app := handlers.NewApp(handlers.AppConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		GatewayToken:   cfg.GatewayToken,
		JWTSecret:      cfg.JWTSecret,
		AccessLog:      true,
	}, &handlers.Services{
		Ledger:        services.NewLedgerService(db),
		Badges:        services.NewBadgeService(db),
		Medals:        services.NewMedalService(db),
		Referrals:     services.NewReferralService(db, cfg.AppURL),
		Premium:       premiumService,
		Accounts:      services.NewAccountService(db, media),
		Users:         services.NewUserService(db),
		Settings:      services.NewSettingsService(db),
		Notifications: services.NewNotificationService(db),
		Social:        services.NewSocialService(db, media),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost%s", addr)
	switch {
	case cfg.JWTSecret != "":
		log.Println("✅ Bearer JWT authentication enabled")
	case cfg.GatewayToken != "":
		log.Println("✅ GatewayAuthMiddleware enforced globally: all requests must come from Gateway")
	}
	log.Printf("✅ CORS configured for origins: %v", cfg.AllowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
