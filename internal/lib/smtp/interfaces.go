// Package smtp provides the transport used to deliver reminder emails.
package smtp

import "io"

// Client is the subset of *smtp.Client the sender service needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface abstracts the SMTP transport for tests.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
