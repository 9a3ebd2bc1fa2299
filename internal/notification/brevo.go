package notification

import (
	"context"
	"fmt"
	"net/http"

	brevo "github.com/getbrevo/brevo-go/lib"
)

type transacSender interface {
	SendTransacEmail(ctx context.Context, email brevo.SendSmtpEmail) (brevo.CreateSmtpEmail, *http.Response, error)
}

// BrevoTransport sends through the Brevo transactional email API.
type BrevoTransport struct {
	api transacSender
}

func NewBrevoTransport(apiKey string) *BrevoTransport {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	client := brevo.NewAPIClient(cfg)
	return &BrevoTransport{api: client.TransactionalEmailsApi}
}

func (t *BrevoTransport) Name() string { return "brevo" }

func (t *BrevoTransport) Send(ctx context.Context, msg Message) error {
	to := make([]brevo.SendSmtpEmailTo, len(msg.To))
	for i, addr := range msg.To {
		to[i] = brevo.SendSmtpEmailTo{Email: addr}
	}

	email := brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Name: msg.FromName, Email: msg.From},
		To:          to,
		Subject:     msg.Subject,
		HtmlContent: msg.HTML,
		TextContent: msg.Text,
	}
	if msg.Template != "" {
		email.Tags = []string{msg.Template}
	}

	_, resp, err := t.api.SendTransacEmail(ctx, email)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("brevo API error: status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("brevo API error: %w", err)
	}
	return nil
}
