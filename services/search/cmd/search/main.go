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
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"

	searchcfg "github.com/Skotchmaster/fashion_shop/services/search/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/search/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/search/internal/index"
	"github.com/Skotchmaster/fashion_shop/services/search/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/search/.env", ".env")
	cfg := searchcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	es, err := index.NewElastic(index.ElasticConfig{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
		Index:     cfg.ESIndex,
	})
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := es.EnsureIndex(ctx); err != nil {
		logger.Error("ensure_index_failed", "index", cfg.ESIndex, "error", err)
	}
	cancel()

	svc := &service.SearchService{Index: es}

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(cfg.KafkaBrokers, events.TopicProducts, "search-indexer", logger)
		defer consumer.Close()
		go func() {
			if err := consumer.Run(logging.IntoContext(runCtx, logger), svc.HandleProductEvent); err != nil {
				logger.Error("product_consumer_stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("kafka_disabled", "reason", "index will not follow catalog writes")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "search")

	httpserver.Register(e, &httpserver.Deps{
		SearchHandler: &httpserver.SearchHTTP{Svc: svc},
		Ready: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return es.Ping(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("search listening", "addr", srv.Addr)
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
	logger.Info("search stopped")
}
