// Package scheduler assembles the reminder scheduler binary: it finds
// meetings starting tomorrow and publishes a reminder per meeting to
// RabbitMQ.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/agenciahub/agenciahub/internal/config"
	"github.com/agenciahub/agenciahub/internal/rabbitmq"
	reminderservice "github.com/agenciahub/agenciahub/internal/services/reminder"
	"github.com/agenciahub/agenciahub/internal/storage/repository"
)

// App is the assembled scheduler.
type App struct {
	scheduler *reminderservice.Scheduler
	conn      *amqp.Connection
	ch        *amqp.Channel
	db        *repository.Storage
	logger    *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New creates the scheduler App.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	return &App{
		scheduler: reminderservice.NewScheduler(db, ch, logger),
		conn:      conn,
		ch:        ch,
		db:        db,
		logger:    logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run publishes reminder batches once a day until the context is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Run(ctx, 24*time.Hour)

	a.logger.Info("shutting down reminder scheduler")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}
	return nil
}
