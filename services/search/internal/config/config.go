package config

import (
	"os"

	"github.com/Skotchmaster/fashion_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "search"
	}

	esURL := config.EnvDefault("ES_URL", "http://localhost:9200")
	config.MustURL(esURL, "ES_URL")

	return ServiceConfig{
		Config:     cfg,
		ESURL:      esURL,
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    config.EnvDefault("ES_INDEX", "products"),
	}
}
