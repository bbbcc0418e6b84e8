package config

import (
	"os"

	"github.com/Skotchmaster/fashion_shop/pkg/config"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/mailer"
)

type ServiceConfig struct {
	config.Config

	SMTP mailer.SMTPConfig
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "notification"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")

	return ServiceConfig{
		Config: cfg,
		SMTP: mailer.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     config.EnvIntDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     config.EnvDefault("SMTP_FROM", "noreply@fashion-shop.local"),
			TLS:      config.EnvDefault("SMTP_TLS", "mandatory"),
		},
	}
}
