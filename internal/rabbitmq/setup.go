package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange and queue names of the reminder pipeline.
const (
	RemindersExchange    = "reminders"
	MeetingUpcomingQueue = "reminders.meeting.upcoming"
	MeetingUpcomingKey   = "meeting.upcoming"
)

// SetupChannel opens a channel, declares the reminders exchange and the
// upcoming-meeting queue and binds them.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		RemindersExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		MeetingUpcomingQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, MeetingUpcomingQueue, err)
	}

	err = ch.QueueBind(
		MeetingUpcomingQueue,
		MeetingUpcomingKey,
		RemindersExchange,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, MeetingUpcomingQueue, err)
	}

	return ch, nil
}
