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
	echomw "github.com/labstack/echo/v4/middleware"

	pkgconfig "github.com/Skotchmaster/fashion_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/fashion_shop/pkg/db"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"

	authcfg "github.com/Skotchmaster/fashion_shop/services/auth/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/auth/.env", ".env")
	cfg := authcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	svc := &service.AuthService{
		Repo:          &repo.GormRepo{DB: db},
		Events:        publisher,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.EnsureAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin_seed_failed", "error", err)
	}
	seedCancel()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "auth")

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: svc},
		JWTSecret:   cfg.JWTAccessSecret,
		Ready:       pkgdb.Ready(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("auth listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	pkgdb.Close(db)
	logger.Info("auth stopped")
}
