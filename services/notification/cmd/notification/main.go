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
	pkgconfig "github.com/Skotchmaster/fashion_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/fashion_shop/pkg/db"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"

	notifcfg "github.com/Skotchmaster/fashion_shop/services/notification/internal/config"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/httpserver"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/mailer"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/notification/.env", ".env")
	cfg := notifcfg.Load()

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

	var m mailer.Mailer = mailer.Log{}
	if cfg.SMTP.Host != "" {
		smtp, err := mailer.NewSMTP(cfg.SMTP)
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		m = smtp
	} else {
		logger.Warn("smtp_disabled", "reason", "SMTP_HOST is empty, mails are only logged")
	}

	svc := &service.NotificationService{Repo: &repo.GormRepo{DB: db}, Mailer: m}

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	if len(cfg.KafkaBrokers) > 0 {
		consumers := []struct {
			topic   string
			handler events.HandlerFunc
		}{
			{events.TopicUsers, svc.HandleUserEvent},
			{events.TopicOrders, svc.HandleOrderEvent},
		}
		for _, c := range consumers {
			consumer := events.NewConsumer(cfg.KafkaBrokers, c.topic, "notification", logger)
			defer consumer.Close()
			go func(topic string, h events.HandlerFunc) {
				if err := consumer.Run(logging.IntoContext(runCtx, logger), h); err != nil {
					logger.Error("consumer_stopped", "topic", topic, "error", err)
				}
			}(c.topic, c.handler)
		}
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, nothing to notify about")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	metrics.Register(e, "notification")

	httpserver.Register(e, &httpserver.Deps{
		NotificationHandler: &httpserver.NotificationHTTP{Svc: svc},
		JWTSecret:           cfg.JWTAccessSecret,
		AuthClient:          authclient.NewClient(cfg.AuthHTTPURL),
		Ready:               pkgdb.Ready(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("notification listening", "addr", srv.Addr)
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
	logger.Info("notification stopped")
}
