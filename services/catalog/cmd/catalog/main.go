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

	"github.com/Skotchmaster/fashion_shop/pkg/authclient"
	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	pkgconfig "github.com/Skotchmaster/fashion_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/fashion_shop/pkg/db"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"

	catalogcfg "github.com/Skotchmaster/fashion_shop/services/catalog/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/storage"
)

func main() {
	pkgconfig.LoadEnvFile("services/catalog/.env", ".env")
	cfg := catalogcfg.Load()

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

	svc := &service.CatalogService{Repo: &repo.GormRepo{DB: db}}

	if cfg.RedisAddr != "" {
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedis(redisCtx, cfg.RedisAddr, cfg.RedisPassword)
		redisCancel()
		if err != nil {
			logger.Warn("redis_unavailable", "reason", "product cache disabled", "error", err)
		} else {
			defer rc.Close()
			svc.Cache = rc
		}
	}

	if cfg.Minio.Endpoint != "" {
		minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewMinio(minioCtx, cfg.Minio)
		minioCancel()
		if err != nil {
			logger.Warn("minio_unavailable", "reason", "image upload disabled", "error", err)
		} else {
			svc.Storage = store
		}
	}

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		svc.Events = producer

		consumer := events.NewConsumer(cfg.KafkaBrokers, events.TopicOrders, "catalog", logger)
		defer consumer.Close()
		go func() {
			if err := consumer.Run(logging.IntoContext(runCtx, logger), svc.HandleOrderEvent); err != nil {
				logger.Error("order_consumer_stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "catalog")

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.JWTAccessSecret,
		AuthClient:     authclient.NewClient(cfg.AuthHTTPURL),
		Ready:          pkgdb.Ready(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	stopConsumers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	pkgdb.Close(db)
	logger.Info("catalog stopped")
}
