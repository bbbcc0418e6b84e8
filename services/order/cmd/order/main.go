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

	"github.com/go-co-op/gocron/v2"
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

	ordercfg "github.com/Skotchmaster/fashion_shop/services/order/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/order/.env", ".env")
	cfg := ordercfg.Load()

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

	svc := &service.OrderService{
		Repo:           &repo.GormRepo{DB: db},
		Catalog:        catalogclient.NewClient(cfg.CatalogHTTPURL),
		PaymentTimeout: cfg.PaymentTimeout,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		svc.Events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, order events are not published")
	}

	runCtx, stopJobs := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopJobs()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.ExpiryInterval),
		gocron.NewTask(func() {
			jobCtx, cancel := context.WithTimeout(runCtx, 30*time.Second)
			defer cancel()
			if _, err := svc.ExpireUnpaidOrders(jobCtx); err != nil {
				logger.Error("expire_unpaid_orders_failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatalf("schedule order expiry: %v", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "order")

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
		JWTSecret:    cfg.JWTAccessSecret,
		AuthClient:   authclient.NewClient(cfg.AuthHTTPURL),
		Ready:        pkgdb.Ready(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("order listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	stopJobs()
	if err := scheduler.Shutdown(); err != nil {
		logger.Error("scheduler_shutdown", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	pkgdb.Close(db)
	logger.Info("order stopped")
}
