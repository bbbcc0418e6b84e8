package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/gateway/internal/config"
	"github.com/Skotchmaster/fashion_shop/gateway/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	pkgconfig "github.com/Skotchmaster/fashion_shop/pkg/config"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/pkg/middleware/csrf"
)

func main() {
	pkgconfig.LoadEnvFile("gateway/.env", ".env")
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var limiter cache.Limiter = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedis(redisCtx, cfg.RedisAddr, cfg.RedisPassword)
		redisCancel()
		if err != nil {
			logger.Warn("redis_unavailable", "reason", "rate limit disabled", "error", err)
		} else {
			defer rc.Close()
			limiter = rc
		}
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready", "/metrics", "/api/auth/login", "/api/auth/register", "/api/auth/refresh"}

	e := echo.New()
	e.HideBanner = true

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:         cfg.AuthHTTPURL,
		CatalogURL:      cfg.CatalogURL,
		SearchURL:       cfg.SearchURL,
		CartURL:         cfg.CartURL,
		OrderURL:        cfg.OrderURL,
		NotificationURL: cfg.NotificationURL,
		ClientURL:       cfg.ClientURL,
		CSRFConfig:      csrfCfg,
		Limiter:         limiter,
		AuthRateLimit:   cfg.AuthRateLimit,
		Logger:          logger,
	}); err != nil {
		log.Fatal(err)
	}
	metrics.Register(e, "gateway")

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("gateway stopped")
}
