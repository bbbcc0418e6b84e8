package config

import (
	"os"

	"github.com/Skotchmaster/fashion_shop/pkg/config"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/storage"
)

type ServiceConfig struct {
	config.Config

	Minio storage.MinioConfig
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")

	return ServiceConfig{
		Config: cfg,
		Minio: storage.MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    config.EnvDefault("MINIO_BUCKET", "products"),
			UseSSL:    config.EnvBoolDefault("MINIO_USE_SSL", false),
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
	}
}
