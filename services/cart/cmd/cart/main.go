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
	"github.com/Skotchmaster/fashion_shop/pkg/catalogclient"
	pkgconfig "github.com/Skotchmaster/fashion_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/fashion_shop/pkg/db"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"

	cartcfg "github.com/Skotchmaster/fashion_shop/services/cart/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/cart/.env", ".env")
	cfg := cartcfg.Load()

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

	svc := &service.CartService{
		Repo:    &repo.GormRepo{DB: db},
		Catalog: catalogclient.NewClient(cfg.CatalogHTTPURL),
	}

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(cfg.KafkaBrokers, events.TopicOrders, "cart", logger)
		defer consumer.Close()
		go func() {
			if err := consumer.Run(logging.IntoContext(runCtx, logger), svc.HandleOrderEvent); err != nil {
				logger.Error("order_consumer_stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, carts are not cleared after checkout")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "cart")

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: svc},
		JWTSecret:   cfg.JWTAccessSecret,
		AuthClient:  authclient.NewClient(cfg.AuthHTTPURL),
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
		logger.Info("cart listening", "addr", srv.Addr)
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
	logger.Info("cart stopped")
}
