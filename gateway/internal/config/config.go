package config

import (
	"strings"

	"github.com/Skotchmaster/fashion_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config

	CatalogURL      string
	SearchURL       string
	CartURL         string
	OrderURL        string
	NotificationURL string

	ClientURL    string
	CookieSecure bool

	AuthRateLimit int64
}

func url(key string) string {
	return strings.TrimRight(config.EnvDefault(key, ""), "/")
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gateway"
	}

	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")
	config.MustURL(cfg.CatalogHTTPURL, "CATALOG_URL")

	sc := ServiceConfig{
		Config:          cfg,
		CatalogURL:      cfg.CatalogHTTPURL,
		SearchURL:       url("SEARCH_URL"),
		CartURL:         url("CART_URL"),
		OrderURL:        url("ORDER_URL"),
		NotificationURL: url("NOTIFICATION_URL"),
		ClientURL:       url("CLIENT_URL"),
		CookieSecure:    config.EnvBoolDefault("COOKIE_SECURE", false),
		AuthRateLimit:   int64(config.EnvIntDefault("AUTH_RATE_LIMIT", 10)),
	}
	config.MustURL(sc.CartURL, "CART_URL")
	config.MustURL(sc.OrderURL, "ORDER_URL")
	return sc
}
