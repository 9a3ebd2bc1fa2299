package notification

import (
	"context"
	"fmt"

	"gymdesk/internal/config"
)

// Message is what a transport delivers. One message may have many recipients.
type Message struct {
	From     string
	FromName string
	To       []string
	Subject  string
	HTML     string
	Text     string
	Template string
}

type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// NewTransport picks the transport named by EMAIL_TRANSPORT.
func NewTransport(cfg *config.Config) (Transport, error) {
	switch cfg.EmailTransport {
	case config.TransportSMTP:
		return NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), nil
	case config.TransportBrevo:
		return NewBrevoTransport(cfg.BrevoAPIKey), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownTransport, cfg.EmailTransport)
	}
}
