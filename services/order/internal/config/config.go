package config

import (
	"time"

	"github.com/Skotchmaster/fashion_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config

	PaymentTimeout time.Duration
	ExpiryInterval time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")
	config.MustURL(cfg.CatalogHTTPURL, "CATALOG_URL")

	return ServiceConfig{
		Config:         cfg,
		PaymentTimeout: config.EnvDurationDefault("PAYMENT_TIMEOUT", 30*time.Minute),
		ExpiryInterval: config.EnvDurationDefault("ORDER_EXPIRY_INTERVAL", time.Minute),
	}
}
