// Package reminder implements the meeting reminder pipeline: a
// scheduler that publishes upcoming meetings to RabbitMQ once a day and
// a sender that consumes them and emails the owner.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/rabbitmq"
)

// MeetingFinder is the storage contract of the scheduler.
type MeetingFinder interface {
	FindMeetingsStartingBetween(ctx context.Context, from, to time.Time) ([]*models.MeetingReminder, error)
}

// Scheduler publishes a reminder for every active meeting starting
// tomorrow.
type Scheduler struct {
	repo MeetingFinder
	ch   *amqp.Channel
	log  *slog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(repo MeetingFinder, ch *amqp.Channel, log *slog.Logger) *Scheduler {
	return &Scheduler{repo: repo, ch: ch, log: log}
}

// Run publishes one batch immediately and then once per interval until
// the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.publishBatch(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishBatch(ctx)
		}
	}
}

func (s *Scheduler) publishBatch(ctx context.Context) {
	from := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	reminders, err := s.repo.FindMeetingsStartingBetween(ctx, from, to)
	if err != nil {
		s.log.Error("failed to load upcoming meetings", sl.Err(err))
		return
	}
	s.log.Info("publishing meeting reminders", slog.Int("count", len(reminders)))

	for _, r := range reminders {
		err := rabbitmq.PublishMessage(s.ch, rabbitmq.RemindersExchange, rabbitmq.MeetingUpcomingKey, r)
		if err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("email", r.Email), sl.Err(err))
		}
	}
}
