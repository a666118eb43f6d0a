package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(newViper())

	require.Equal(t, 5200, cfg.Port)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, "http://localhost:3000", cfg.AppURL)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	require.Equal(t, time.Minute, cfg.PremiumSweepInterval)
	require.False(t, cfg.R2.Enabled())
}

func TestFromViperOverrides(t *testing.T) {
	v := newViper()
	v.Set("PORT", 8080)
	v.Set("DATABASE_DRIVER", "SQLite")
	v.Set("APP_URL", "https://memeverse.app/")
	v.Set("ALLOWED_ORIGINS", "https://a.test, https://b.test")
	v.Set("PREMIUM_SWEEP_INTERVAL", "30s")
	v.Set("CLOUDFLARE_ACCOUNT_ID", "acc")
	v.Set("R2_ACCESS_KEY_ID", "key")
	v.Set("R2_ACCESS_KEY_SECRET", "secret")
	v.Set("R2_BUCKET_NAME", "memes")

	cfg := FromViper(v)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "https://memeverse.app", cfg.AppURL)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.PremiumSweepInterval)
	require.True(t, cfg.R2.Enabled())
}

func TestFromViperRejectsNonPositiveInterval(t *testing.T) {
	v := newViper()
	v.Set("PREMIUM_SWEEP_INTERVAL", "0s")

	require.Equal(t, time.Minute, FromViper(v).PremiumSweepInterval)
}
