package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API reads from the environment.
type Config struct {
	Port                string
	DatabaseDSN         string
	JWTSecret           string
	AppURL              string
	CORSOrigin          string
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	ImageKitPublicKey   string
	ImageKitPrivateKey  string
	UploadTokenTTL      time.Duration
	OrderExpiry         time.Duration
	OrderSweepSchedule  string
	LogLevel            string
	GinMode             string
}

// Load reads the .env file (when present) and then the process environment.
// The returned bool reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load() == nil

	cfg, err := FromEnv(os.Getenv)
	return cfg, loaded, err
}

// FromEnv builds a Config from a lookup function. Missing required keys are reported together.
func FromEnv(getenv func(string) string) (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	optional := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:                optional("PORT", "8080"),
		DatabaseDSN:         required("DB_DSN_PRIMARY"),
		JWTSecret:           required("AUTH_JWT_SECRET"),
		AppURL:              strings.TrimRight(optional("APP_URL", "http://localhost:3000"), "/"),
		CORSOrigin:          optional("CORS_ORIGIN", "http://localhost:3000"),
		StripeSecretKey:     required("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:            strings.ToLower(optional("CURRENCY", "inr")),
		ImageKitPublicKey:   required("IMAGEKIT_PUBLIC_KEY"),
		ImageKitPrivateKey:  required("IMAGEKIT_PRIVATE_KEY"),
		OrderSweepSchedule:  optional("ORDER_SWEEP_SCHEDULE", "@every 1h"),
		LogLevel:            optional("LOG_LEVEL", "info"),
		GinMode:             getenv("GIN_MODE"),
	}

	var err error
	if cfg.UploadTokenTTL, err = time.ParseDuration(optional("UPLOAD_TOKEN_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("UPLOAD_TOKEN_TTL: %w", err)
	}
	if cfg.OrderExpiry, err = time.ParseDuration(optional("ORDER_EXPIRY", "25h")); err != nil {
		return nil, fmt.Errorf("ORDER_EXPIRY: %w", err)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
