package payment

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/dates"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
	"gymdesk/internal/notification"
	"gymdesk/internal/plan"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgPlanInactive = "Select an active subscription plan."
	msgPlanMissing  = "Select a valid subscription plan."
	msgPeriodOrder  = "Period end must be on or after the period start."
)

type Service interface {
	Record(ctx context.Context, q db.Querier, actor *auth.Actor, in *Input) (int, error)
	Amend(ctx context.Context, q db.Querier, actor *auth.Actor, id int, in *Input) error
	Renew(ctx context.Context, q db.Querier, actor *auth.Actor, memberID int, in *RenewInput) (int, error)
	SendReceipt(ctx context.Context, id int, template string)
	Today() time.Time
}

type service struct {
	repo       Repository
	plans      plan.Repository
	members    member.Repository
	reconciler *Reconciler
	sender     notification.Sender
	reader     db.Querier
	now        func() time.Time
	tracer     trace.Tracer
}

// NewService wires the ledger. reader is used for reads after commit.
func NewService(
	repo Repository,
	plans plan.Repository,
	members member.Repository,
	sender notification.Sender,
	reader db.Querier,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       repo,
		plans:      plans,
		members:    members,
		reconciler: NewReconciler(members),
		sender:     sender,
		reader:     reader,
		now:        now,
		tracer:     otel.Tracer("gymdesk/payment"),
	}
}

func (s *service) Today() time.Time {
	return dates.Today(s.now())
}

// Record writes a new payment and reconciles the member in the same transaction.
func (s *service) Record(ctx context.Context, q db.Querier, actor *auth.Actor, in *Input) (int, error) {
	e := in.entry(s.now())
	e.ReceivedBy = actorID(actor)

	if err := s.prepare(ctx, q, e, nil); err != nil {
		return 0, err
	}

	id, err := s.repo.Insert(ctx, q, e)
	if err != nil {
		return 0, err
	}
	e.ID = id

	if _, err := s.reconciler.Apply(ctx, q, e); err != nil {
		return 0, err
	}
	return id, nil
}

// Amend saves an edited payment. A paid payment is reconciled again, which is
// harmless because widening is idempotent. Refunds never shrink the window.
func (s *service) Amend(ctx context.Context, q db.Querier, actor *auth.Actor, id int, in *Input) error {
	prev, err := s.repo.GetForUpdate(ctx, q, id)
	if err != nil {
		return err
	}

	e := in.entry(prev.PaidAt)
	e.ID = id
	e.ReceivedBy = prev.ReceivedBy
	if e.ReceivedBy == nil {
		e.ReceivedBy = actorID(actor)
	}

	if err := s.prepare(ctx, q, e, prev.PlanID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, q, id, e); err != nil {
		return err
	}

	if prev.Status == StatusPaid && e.Status == StatusRefunded {
		logger.Warn("refunded payment left the member window unchanged",
			"payment_id", id, "member_id", e.MemberID)
		metrics.RecordReconciliation(OutcomeRefund)
	}

	_, err = s.reconciler.Apply(ctx, q, e)
	return err
}

// Renew takes a payment for the next period of a member's subscription. The
// period chains onto a running window and restarts today otherwise.
func (s *service) Renew(ctx context.Context, q db.Querier, actor *auth.Actor, memberID int, in *RenewInput) (int, error) {
	ctx, span := s.tracer.Start(ctx, "payment.Renew", trace.WithAttributes(
		attribute.Int("member.id", memberID),
		attribute.Int("plan.id", in.SubscriptionPlanID),
	))
	defer span.End()

	window, err := s.members.LockWindow(ctx, q, memberID)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	p, err := s.activePlan(ctx, q, in.SubscriptionPlanID, nil)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	period := RenewalPeriod(window.End, p.DurationDays, s.Today())
	planID := p.ID
	e := &Entry{
		MemberID:    memberID,
		PlanID:      &planID,
		Amount:      orZero(in.Amount),
		Discount:    orZero(in.Discount),
		Method:      methodOr(in.PaymentMethod),
		PaidAt:      s.now(),
		Reference:   in.ReferenceNumber,
		Notes:       in.Notes,
		Status:      StatusPaid,
		PeriodStart: dates.Ptr(period.Start),
		PeriodEnd:   dates.Ptr(period.End),
		ReceivedBy:  actorID(actor),
	}

	id, err := s.repo.Insert(ctx, q, e)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	e.ID = id

	if _, err := s.reconciler.Apply(ctx, q, e); err != nil {
		span.RecordError(err)
		return 0, err
	}

	span.SetAttributes(attribute.Int("payment.id", id))
	return id, nil
}

// SendReceipt mails the member a receipt for a committed payment. Failures are
// logged and never reach the caller.
func (s *service) SendReceipt(ctx context.Context, id int, template string) {
	p, err := s.repo.Get(ctx, s.reader, id)
	if err != nil {
		logger.Error("failed to load payment for receipt", "payment_id", id, "error", err.Error())
		return
	}
	metrics.RecordPayment(p.Status, p.PaymentMethod)

	if p.Status != StatusPaid || s.sender == nil {
		return
	}

	contact, err := s.members.Contact(ctx, s.reader, p.MemberID)
	if err != nil {
		logger.Error("failed to load member contact", "payment_id", id, "member_id", p.MemberID, "error", err.Error())
		return
	}

	subject := "Payment receipt"
	if template == notification.TemplateRenewal {
		subject = "Subscription renewed"
	}

	res, err := s.sender.Send(ctx, notification.Request{
		Subject:    subject,
		Template:   template,
		Data:       receiptData(p, contact.Name),
		Recipients: []string{contact.Email},
		Link:       &notification.Link{ContentType: "finance.payment", ObjectID: p.ID},
	})
	if err != nil {
		logger.Error("failed to send receipt", "payment_id", id, "error", err.Error())
		return
	}
	if !res.Sent() {
		logger.Warn("receipt not delivered", "payment_id", id, "notification_ids", res.IDs)
	}
}

// prepare checks the plan and derives the period before the row is written.
// An inactive plan is accepted only when the payment already had it.
func (s *service) prepare(ctx context.Context, q db.Querier, e *Entry, keptPlan *int) error {
	if e.PlanID != nil {
		p, err := s.activePlan(ctx, q, *e.PlanID, keptPlan)
		if err != nil {
			return err
		}
		DerivePeriod(e, p.DurationDays, s.Today())
	}
	if errs := e.checkPeriod(); errs != nil {
		return errs
	}
	return nil
}

func (s *service) activePlan(ctx context.Context, q db.Querier, id int, keptPlan *int) (*plan.Plan, error) {
	p, err := s.plans.GetByID(ctx, q, id)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, crud.FieldError("subscription_plan_id", "invalid", msgPlanMissing)
		}
		return nil, err
	}
	if !p.IsActive && !(keptPlan != nil && *keptPlan == id) {
		return nil, crud.FieldError("subscription_plan_id", "inactive", msgPlanInactive)
	}
	return p, nil
}

func receiptData(p *Payment, name string) notification.ReceiptData {
	data := notification.ReceiptData{
		PaymentID:  p.ID,
		MemberName: name,
		Amount:     p.Amount.StringFixed(2),
		NetAmount:  p.NetAmount.StringFixed(2),
		Method:     MethodLabels[p.PaymentMethod],
		Reference:  p.ReferenceNumber,
	}
	if p.PlanName != nil {
		data.PlanName = *p.PlanName
	}
	if p.Discount.IsPositive() {
		data.Discount = p.Discount.StringFixed(2)
	}
	if p.PeriodStart != nil && p.PeriodEnd != nil {
		data.PeriodStart = p.PeriodStart.Format(dates.Layout)
		data.PeriodEnd = p.PeriodEnd.Format(dates.Layout)
	}
	return data
}

func actorID(a *auth.Actor) *int {
	if a == nil {
		return nil
	}
	id := a.UserID
	return &id
}
