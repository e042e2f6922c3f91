// Package sender assembles the reminder sender binary: it consumes the
// upcoming-meeting queue and delivers reminder emails over SMTP.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/agenciahub/agenciahub/internal/config"
	"github.com/agenciahub/agenciahub/internal/lib/smtp"
	"github.com/agenciahub/agenciahub/internal/rabbitmq"
	reminderservice "github.com/agenciahub/agenciahub/internal/services/reminder"
)

// App is the assembled sender.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *reminderservice.Sender
	logger *slog.Logger
}

// New creates the sender App.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: reminderservice.NewSender(transport, logger),
		logger: logger,
	}, nil
}

// Run starts the queue consumer and blocks until the context is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.MeetingUpcomingQueue, a.sender.Handle)
	if err != nil {
		a.logger.Error("failed to start reminder consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("reminder sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
