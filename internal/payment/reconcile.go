package payment

import (
	"context"
	"time"

	"gymdesk/internal/dates"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	OutcomeApplied   = "applied"
	OutcomeUnchanged = "unchanged"
	OutcomeSkipped   = "skipped"
	OutcomeRefund    = "refund_not_rolled_back"
)

// Period is the date range one payment pays for. A zero Start means only the
// end was given; the window start is then kept.
type Period struct {
	Start time.Time
	End   time.Time
}

// Widen grows the window to cover p and marks it active. The result never
// starts later or ends earlier than w.
func Widen(w member.Window, p Period) member.Window {
	out := w
	if !p.Start.IsZero() && (w.Start == nil || p.Start.Before(*w.Start)) {
		out.Start = dates.Ptr(p.Start)
	}
	if w.End == nil || p.End.After(*w.End) {
		out.End = dates.Ptr(p.End)
	}
	// an end-only period may land before a start the window never closed
	if out.Start != nil && out.End.Before(*out.Start) {
		out.Start = dates.Ptr(*out.End)
	}
	out.Status = member.StatusActive
	return out
}

// DerivePeriod fills a missing start with today and a missing end with
// start + duration. Only paid payments for a plan are derived.
func DerivePeriod(e *Entry, durationDays int, today time.Time) {
	if e.Status != StatusPaid || e.PlanID == nil {
		return
	}
	if e.PeriodStart == nil {
		e.PeriodStart = dates.Ptr(today)
	}
	if e.PeriodEnd == nil {
		e.PeriodEnd = dates.Ptr(dates.AddDays(*e.PeriodStart, durationDays))
	}
}

// RenewalPeriod chains onto a window that is still running, otherwise starts today.
func RenewalPeriod(currentEnd *time.Time, durationDays int, today time.Time) Period {
	start := today
	if currentEnd != nil && currentEnd.After(today) {
		start = dates.Of(*currentEnd)
	}
	return Period{Start: start, End: dates.AddDays(start, durationDays)}
}

// Reconciler moves a member's window when a paid payment is persisted.
type Reconciler struct {
	members member.Repository
	tracer  trace.Tracer
}

func NewReconciler(members member.Repository) *Reconciler {
	return &Reconciler{members: members, tracer: otel.Tracer("gymdesk/payment")}
}

// Apply must run in the transaction that wrote e. It locks the member row and
// writes only the window, status and plan.
func (r *Reconciler) Apply(ctx context.Context, q db.Querier, e *Entry) (string, error) {
	ctx, span := r.tracer.Start(ctx, "payment.Reconcile", trace.WithAttributes(
		attribute.Int("payment.id", e.ID),
		attribute.Int("member.id", e.MemberID),
	))
	defer span.End()

	outcome, err := r.apply(ctx, q, e)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.String("reconcile.outcome", outcome))
	metrics.RecordReconciliation(outcome)
	return outcome, nil
}

func (r *Reconciler) apply(ctx context.Context, q db.Querier, e *Entry) (string, error) {
	if e.Status != StatusPaid || e.MemberID == 0 {
		return OutcomeSkipped, nil
	}
	period, ok := e.Period()
	if !ok {
		return OutcomeSkipped, nil
	}

	current, err := r.members.LockWindow(ctx, q, e.MemberID)
	if err != nil {
		return "", err
	}

	next := Widen(*current, period)
	if e.PlanID != nil {
		next.PlanID = e.PlanID
	}
	if sameWindow(*current, next) {
		return OutcomeUnchanged, nil
	}

	if err := r.members.SaveWindow(ctx, q, &next); err != nil {
		return "", err
	}

	start := ""
	if next.Start != nil {
		start = next.Start.Format(dates.Layout)
	}
	logger.Debug("member window widened",
		"member_id", e.MemberID, "payment_id", e.ID,
		"start", start, "end", next.End.Format(dates.Layout))
	return OutcomeApplied, nil
}

func sameWindow(a, b member.Window) bool {
	return a.Status == b.Status && sameDate(a.Start, b.Start) && sameDate(a.End, b.End) && sameID(a.PlanID, b.PlanID)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return dates.Of(*a).Equal(dates.Of(*b))
}

func sameID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
