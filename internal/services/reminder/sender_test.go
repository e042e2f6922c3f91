package reminder

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agenciahub/agenciahub/internal/lib/smtp"
	"github.com/agenciahub/agenciahub/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	return m.Called().String(0)
}

type MockSMTPClient struct {
	mock.Mock
	buf bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return nopWriteCloser{&m.buf}, nil
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func testReminder() models.MeetingReminder {
	return models.MeetingReminder{
		Email:           "alice@example.com",
		Username:        "alice",
		Title:           "quarterly review",
		DateTime:        time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
}

func newTestSender(transport *MockTransport) *Sender {
	return NewSender(transport, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandle(t *testing.T) {
	t.Run("successful delivery", func(t *testing.T) {
		client := new(MockSMTPClient)
		client.On("Mail", "noreply@agenciahub.example").Return(nil)
		client.On("Rcpt", "alice@example.com").Return(nil)
		client.On("Data").Return(nil, nil)
		client.On("Quit").Return(nil)

		transport := new(MockTransport)
		transport.On("Connect").Return(client, nil)
		transport.On("GetSMTPUser").Return("noreply@agenciahub.example")

		body, err := json.Marshal(testReminder())
		require.NoError(t, err)

		sender := newTestSender(transport)
		assert.NoError(t, sender.Handle(body))

		msg := client.buf.String()
		assert.Contains(t, msg, "To: alice@example.com")
		assert.Contains(t, msg, "Subject: Upcoming meeting: quarterly review")
		assert.Contains(t, msg, "Hello alice")
		assert.Contains(t, msg, "60 minutes")
		client.AssertExpectations(t)
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		transport := new(MockTransport)
		sender := newTestSender(transport)

		// Returning nil acks the message so it never requeues.
		assert.NoError(t, sender.Handle([]byte("{not json")))
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("connect failure requeues", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Connect").Return(nil, errors.New("connection refused"))

		body, err := json.Marshal(testReminder())
		require.NoError(t, err)

		sender := newTestSender(transport)
		assert.Error(t, sender.Handle(body))
	})

	t.Run("rcpt failure requeues", func(t *testing.T) {
		client := new(MockSMTPClient)
		client.On("Mail", "noreply@agenciahub.example").Return(nil)
		client.On("Rcpt", "alice@example.com").Return(errors.New("mailbox unavailable"))
		client.On("Quit").Return(nil)

		transport := new(MockTransport)
		transport.On("Connect").Return(client, nil)
		transport.On("GetSMTPUser").Return("noreply@agenciahub.example")

		body, err := json.Marshal(testReminder())
		require.NoError(t, err)

		sender := newTestSender(transport)
		assert.Error(t, sender.Handle(body))
	})
}
