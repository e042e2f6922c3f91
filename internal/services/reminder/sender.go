package reminder

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/lib/smtp"
	"github.com/agenciahub/agenciahub/internal/models"
)

// Sender delivers reminder emails for consumed queue messages.
type Sender struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSender creates a Sender.
func NewSender(transport smtp.TransportInterface, log *slog.Logger) *Sender {
	return &Sender{transport: transport, log: log}
}

// Handle is the queue consumer callback: it decodes a reminder message
// and sends the email. A returned error requeues the delivery.
func (s *Sender) Handle(body []byte) error {
	var reminder models.MeetingReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to decode reminder message", sl.Err(err))
		// Malformed payloads never become valid, do not requeue.
		return nil
	}
	if err := s.send(reminder); err != nil {
		s.log.Error("failed to send reminder",
			slog.String("email", reminder.Email), sl.Err(err))
		return err
	}
	s.log.Info("reminder sent", slog.String("email", reminder.Email))
	return nil
}

func (s *Sender) send(reminder models.MeetingReminder) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			_ = client.Close()
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from failed: %w", err)
	}
	if err := client.Rcpt(reminder.Email); err != nil {
		return fmt.Errorf("rcpt to failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data failed: %w", err)
	}
	if _, err := w.Write([]byte(composeMessage(from, reminder))); err != nil {
		_ = w.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	return w.Close()
}

func composeMessage(from string, r models.MeetingReminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", r.Email)
	fmt.Fprintf(&b, "Subject: Upcoming meeting: %s\r\n", r.Title)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", r.Username)
	fmt.Fprintf(&b, "You have a meeting %q scheduled for %s (%d minutes).\r\n",
		r.Title, r.DateTime.Format("02 Jan 2006 15:04 MST"), r.DurationMinutes)
	b.WriteString("\r\nAgenciaHub\r\n")
	return b.String()
}
