package notification

import (
	"context"
	"errors"
	"fmt"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoRecipients = errors.New("notification has no recipients")

// Sender is what other packages depend on to send mail.
type Sender interface {
	Send(ctx context.Context, req Request) (*Result, error)
}

// Dispatcher keeps a delivery record per recipient around every send. A
// transport failure is recorded on the records and reported in the Result;
// only record-keeping failures are returned as errors.
type Dispatcher struct {
	repo      Repository
	transport Transport
	from      string
	fromName  string
	tracer    trace.Tracer
}

func NewDispatcher(repo Repository, transport Transport, from, fromName string) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		transport: transport,
		from:      from,
		fromName:  fromName,
		tracer:    otel.Tracer("gymdesk/notification"),
	}
}

func (d *Dispatcher) Send(ctx context.Context, req Request) (*Result, error) {
	ctx, span := d.tracer.Start(ctx, "notification.Send", trace.WithAttributes(
		attribute.String("email.template", req.Template),
		attribute.String("email.transport", d.transport.Name()),
		attribute.Int("email.recipients", len(req.Recipients)),
		attribute.Int("email.retry_id", req.RetryID),
	))
	defer span.End()

	if len(req.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	htmlBody, textBody := req.Body, PlainText(req.Body)
	if req.Data != nil {
		var err error
		htmlBody, textBody, err = Render(req.Template, req.Data)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	ids := []int{req.RetryID}
	if req.RetryID == 0 {
		var err error
		ids, err = d.repo.InsertPending(ctx, req.Recipients, req.Subject, htmlBody, req.Template, req.Link)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to record notification: %w", err)
		}
	}

	sendErr := d.transport.Send(ctx, Message{
		From:     d.from,
		FromName: d.fromName,
		To:       req.Recipients,
		Subject:  req.Subject,
		HTML:     htmlBody,
		Text:     textBody,
		Template: req.Template,
	})

	if sendErr != nil {
		metrics.RecordEmail(d.transport.Name(), StatusFailed)
		logger.Warn("email delivery failed",
			"transport", d.transport.Name(), "ids", ids, "subject", req.Subject, "error", sendErr.Error())
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, "delivery failed")

		if err := d.repo.MarkFailed(ctx, ids, sendErr.Error()); err != nil {
			return nil, fmt.Errorf("failed to mark notification failed: %w", err)
		}
		return &Result{IDs: ids, Status: StatusFailed, Error: sendErr.Error()}, nil
	}

	metrics.RecordEmail(d.transport.Name(), StatusSent)
	logger.Info("email sent", "transport", d.transport.Name(), "ids", ids, "subject", req.Subject)

	if err := d.repo.MarkSent(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return &Result{IDs: ids, Status: StatusSent}, nil
}

// Retry re-sends a stored notification to its recipient, updating the same record.
func (d *Dispatcher) Retry(ctx context.Context, id int) (*Result, error) {
	n, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.repo.MarkRetry(ctx, id); err != nil {
		return nil, err
	}

	logger.Info("retrying notification", "id", id, "previous_status", n.Status, "failed_attempts", n.FailedAttempts)
	return d.Send(ctx, Request{
		Subject:    n.Subject,
		Template:   n.TemplateName,
		Body:       n.Body,
		Recipients: []string{n.Recipient},
		RetryID:    id,
	})
}
