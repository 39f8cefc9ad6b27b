package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gohire/internal/app"
	"gohire/internal/config"
	"gohire/internal/logging"
	"gohire/internal/notify"
)

func runWorker(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("worker needs AMQP_URL")
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("worker needs STORE=%s", config.StorePostgres)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	in, err := openInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	notifications := app.NewNotificationService(in.repos.contracts, in.repos.profiles, notify.NewMailer(cfg.Mail, logger), logging.NewServiceLogger(logger), cfg.PublicBaseURL)
	consumer, err := in.amqp.Consumer(cfg.AMQPQueue, notifications.RoutingKeys())
	if err != nil {
		return err
	}
	logger.Info("worker started", slog.String("queue", cfg.AMQPQueue))
	if err := consumer.Run(ctx, notifications.Handle, logger); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("worker stopped")
	return nil
}
