package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr           string
	CatalogURL         string
	AccountURL         string
	OrderURL           string
	BackendTimeout     time.Duration
	SessionIdleTimeout time.Duration
	SessionSweep       time.Duration
	ShutdownTimeout    time.Duration
	ShippingFee        decimal.Decimal
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		CatalogURL:         envOrDefault("CATALOG_URL", "https://santafe-dashboard.vercel.app/api"),
		AccountURL:         envOrDefault("ACCOUNT_URL", "https://santafe-dashboard.vercel.app/api"),
		OrderURL:           envOrDefault("ORDER_URL", "https://santafe-dashboard.vercel.app/api"),
		BackendTimeout:     envDuration("BACKEND_TIMEOUT_SECONDS", 10*time.Second),
		SessionIdleTimeout: envDuration("SESSION_IDLE_TIMEOUT_SECONDS", 2*time.Hour),
		SessionSweep:       envDuration("SESSION_SWEEP_SECONDS", time.Minute),
		ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		ShippingFee:        envDecimal("SHIPPING_FEE", decimal.NewFromInt(12)),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return def
}
