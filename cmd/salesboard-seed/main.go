// Command salesboard-seed loads the upstream transaction feed into the
// store once and exits. Useful for provisioning a fresh database
// without going through the HTTP API.
package main

import (
	"context"
	"os"
	"time"

	"salesboard/internal/amqp"
	"salesboard/internal/cli"
	"salesboard/internal/feed"
	applog "salesboard/internal/log"
	"salesboard/internal/services"
)

func main() {
	logger, cfg := cli.Setup(applog.ComponentSeeder)

	repo := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var events services.ReseedPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, reseed events disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			events = client
		}
	}

	seeder := services.NewSeeder(repo, feed.NewClient(cfg.SeedFeedURL, cfg.SeedFeedTimeout), events)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := seeder.Seed(ctx)
	if err != nil {
		logger.Error("Seeding failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Seeding complete", applog.FieldCount, res.Loaded, applog.FieldSkipped, res.Skipped)
}
