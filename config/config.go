package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	CDNBaseURL      string
}

// Enabled reports whether enough credentials are present to talk to the bucket.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.BucketName != ""
}

type Config struct {
	Port                 int
	DatabaseDriver       string
	DatabaseURL          string
	AppURL               string
	AllowedOrigins       []string
	GatewayToken         string
	JWTSecret            string
	R2                   R2Config
	PremiumSweepInterval time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", 5200)
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("GATEWAY_TOKEN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CLOUDFLARE_ACCOUNT_ID", "")
	v.SetDefault("R2_ACCESS_KEY_ID", "")
	v.SetDefault("R2_ACCESS_KEY_SECRET", "")
	v.SetDefault("R2_BUCKET_NAME", "")
	v.SetDefault("CDN_BASE_URL", "")
	v.SetDefault("PREMIUM_SWEEP_INTERVAL", time.Minute)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	origins := strings.Split(v.GetString("ALLOWED_ORIGINS"), ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	interval := v.GetDuration("PREMIUM_SWEEP_INTERVAL")
	if interval <= 0 {
		log.Printf("⚠️  PREMIUM_SWEEP_INTERVAL %q is not positive, using 1m", v.GetString("PREMIUM_SWEEP_INTERVAL"))
		interval = time.Minute
	}

	return &Config{
		Port:           v.GetInt("PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		AppURL:         strings.TrimRight(v.GetString("APP_URL"), "/"),
		AllowedOrigins: origins,
		GatewayToken:   v.GetString("GATEWAY_TOKEN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		R2: R2Config{
			AccountID:       v.GetString("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			AccessKeySecret: v.GetString("R2_ACCESS_KEY_SECRET"),
			BucketName:      v.GetString("R2_BUCKET_NAME"),
			CDNBaseURL:      strings.TrimRight(v.GetString("CDN_BASE_URL"), "/"),
		},
		PremiumSweepInterval: interval,
	}
}
