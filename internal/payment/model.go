package payment

import (
	"time"

	"gymdesk/internal/crud"
	"gymdesk/internal/dates"

	"github.com/shopspring/decimal"
)

const (
	StatusPaid     = "paid"
	StatusPending  = "pending"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

const (
	MethodCash         = "cash"
	MethodJazzCash     = "jazzcash"
	MethodEasypaisa    = "easypaisa"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
)

var (
	Statuses = []string{StatusPaid, StatusPending, StatusFailed, StatusRefunded}
	Methods  = []string{MethodCash, MethodJazzCash, MethodEasypaisa, MethodBankTransfer, MethodCard}

	MethodLabels = map[string]string{
		MethodCash:         "Cash",
		MethodJazzCash:     "JazzCash",
		MethodEasypaisa:    "Easypaisa",
		MethodBankTransfer: "Bank Transfer",
		MethodCard:         "Card",
	}
)

// Payment is a list/detail row. NetAmount is computed by the query.
type Payment struct {
	ID                 int             `db:"id" json:"id"`
	MemberID           int             `db:"member_id" json:"member_id"`
	MemberName         string          `db:"member_name" json:"member_name"`
	SubscriptionPlanID *int            `db:"subscription_plan_id" json:"subscription_plan_id"`
	PlanName           *string         `db:"plan_name" json:"plan_name"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	Discount           decimal.Decimal `db:"discount" json:"discount"`
	NetAmount          decimal.Decimal `db:"net_amount" json:"net_amount"`
	PaymentMethod      string          `db:"payment_method" json:"payment_method"`
	PaymentDate        time.Time       `db:"payment_date" json:"payment_date"`
	ReferenceNumber    string          `db:"reference_number" json:"reference_number"`
	Notes              string          `db:"notes" json:"notes"`
	Status             string          `db:"status" json:"status"`
	PeriodStart        *time.Time      `db:"period_start" json:"period_start"`
	PeriodEnd          *time.Time      `db:"period_end" json:"period_end"`
	ReceivedBy         *int            `db:"received_by" json:"received_by"`
	CreatedOn          time.Time       `db:"created_on" json:"created_on"`
	UpdatedOn          time.Time       `db:"updated_on" json:"updated_on"`
}

// Entry is a payment as written to the ledger.
type Entry struct {
	ID          int             `db:"id"`
	MemberID    int             `db:"member_id"`
	PlanID      *int            `db:"subscription_plan_id"`
	Amount      decimal.Decimal `db:"amount"`
	Discount    decimal.Decimal `db:"discount"`
	Method      string          `db:"payment_method"`
	PaidAt      time.Time       `db:"payment_date"`
	Reference   string          `db:"reference_number"`
	Notes       string          `db:"notes"`
	Status      string          `db:"status"`
	PeriodStart *time.Time      `db:"period_start"`
	PeriodEnd   *time.Time      `db:"period_end"`
	ReceivedBy  *int            `db:"received_by"`
}

// Period returns the coverage period. The end is required; a missing start
// yields an end-only period.
func (e *Entry) Period() (Period, bool) {
	if e.PeriodEnd == nil {
		return Period{}, false
	}
	p := Period{End: *e.PeriodEnd}
	if e.PeriodStart != nil {
		p.Start = *e.PeriodStart
	}
	return p, true
}

// checkPeriod runs after derivation, so it also catches a submitted end that
// falls before a derived start.
func (e *Entry) checkPeriod() crud.ValidationErrors {
	if e.PeriodStart != nil && e.PeriodEnd != nil && e.PeriodEnd.Before(*e.PeriodStart) {
		return crud.FieldError("period_end", "invalid", msgPeriodOrder)
	}
	return nil
}

type Input struct {
	MemberID           int              `json:"member_id" validate:"required,gt=0"`
	SubscriptionPlanID *int             `json:"subscription_plan_id" validate:"omitempty,gt=0"`
	Amount             *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Discount           *decimal.Decimal `json:"discount" validate:"omitempty,gte=0"`
	PaymentMethod      string           `json:"payment_method" validate:"omitempty,oneof=cash jazzcash easypaisa bank_transfer card"`
	PaymentDate        *string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	ReferenceNumber    string           `json:"reference_number" validate:"max=100"`
	Notes              string           `json:"notes"`
	Status             string           `json:"status" validate:"omitempty,oneof=paid pending failed refunded"`
	PeriodStart        *string          `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd          *string          `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
}

func (in *Input) Clean() crud.ValidationErrors {
	return periodOrder(in.PeriodStart, in.PeriodEnd)
}

func (in *Input) entry(now time.Time) *Entry {
	start, _ := dates.Parse(in.PeriodStart)
	end, _ := dates.Parse(in.PeriodEnd)

	paidAt := now
	if d, _ := dates.Parse(in.PaymentDate); d != nil {
		paidAt = *d
	}

	return &Entry{
		MemberID:    in.MemberID,
		PlanID:      in.SubscriptionPlanID,
		Amount:      orZero(in.Amount),
		Discount:    orZero(in.Discount),
		Method:      methodOr(in.PaymentMethod),
		PaidAt:      paidAt,
		Reference:   in.ReferenceNumber,
		Notes:       in.Notes,
		Status:      statusOr(in.Status),
		PeriodStart: start,
		PeriodEnd:   end,
	}
}

// RenewInput is the renewal form. The period is always computed.
type RenewInput struct {
	SubscriptionPlanID int              `json:"subscription_plan_id" validate:"required,gt=0"`
	Amount             *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Discount           *decimal.Decimal `json:"discount" validate:"omitempty,gte=0"`
	PaymentMethod      string           `json:"payment_method" validate:"omitempty,oneof=cash jazzcash easypaisa bank_transfer card"`
	ReferenceNumber    string           `json:"reference_number" validate:"max=100"`
	Notes              string           `json:"notes"`
}

func periodOrder(rawStart, rawEnd *string) crud.ValidationErrors {
	start, errStart := dates.Parse(rawStart)
	end, errEnd := dates.Parse(rawEnd)
	if errStart != nil || errEnd != nil || start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return crud.FieldError("period_end", "invalid", msgPeriodOrder)
	}
	return nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func methodOr(m string) string {
	if m == "" {
		return MethodCash
	}
	return m
}

func statusOr(s string) string {
	if s == "" {
		return StatusPaid
	}
	return s
}
