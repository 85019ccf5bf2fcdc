package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"salesboard/internal/amqp"
	"salesboard/internal/cli"
	"salesboard/internal/feed"
	apphttp "salesboard/internal/http"
	applog "salesboard/internal/log"
	"salesboard/internal/services"
)

func main() {
	logger, cfg := cli.Setup(applog.ComponentApp)

	repo := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without a broker URL the seeder skips
	// publishing reseed events and the server skips consuming them.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, reseed events disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			events = client
		}
	}

	// Keep a nil client out of the interface; the seeder treats a nil
	// publisher as "messaging off".
	var publisher services.ReseedPublisher
	if events != nil {
		publisher = events
	}

	feedClient := feed.NewClient(cfg.SeedFeedURL, cfg.SeedFeedTimeout)
	analytics := services.NewAnalytics(repo)
	seeder := services.NewSeeder(repo, feedClient, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, analytics, seeder, repo, apphttp.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CacheTTL:           cfg.CacheTTL,
		CacheMaxEntries:    cfg.CacheMaxEntries,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	// Reseeds can also happen out of process (cmd/salesboard-seed);
	// their events arrive over AMQP and drop our cached aggregates.
	if events != nil {
		go func() {
			err := events.ConsumeDatasetReseeded(ctx, func(msg *amqp.DatasetReseededMessage) error {
				srv.InvalidateCaches()
				logger.Info("Caches invalidated after external reseed", applog.FieldCount, msg.Count)
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reseed event consumption stopped", applog.FieldError, err)
			}
		}()
	}

	logger.Info("Starting server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	slog.Info("Server stopped")
}
