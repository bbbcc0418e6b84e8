package config

import (
	"github.com/Skotchmaster/fashion_shop/pkg/config"
)

func Load() config.Config {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cart"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")
	config.MustURL(cfg.CatalogHTTPURL, "CATALOG_URL")

	return cfg
}
