package member

import (
	"time"

	"gymdesk/internal/crud"
	"gymdesk/internal/dates"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusPending   = "pending"
)

var (
	Statuses    = []string{StatusActive, StatusExpired, StatusCancelled, StatusPending}
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

// Member is a list/detail row, joined with the account holder and the plan name.
type Member struct {
	ID                    int                 `db:"id" json:"id"`
	UserID                int                 `db:"user_id" json:"user_id"`
	Name                  string              `db:"name" json:"name"`
	Email                 string              `db:"email" json:"email"`
	Phone                 string              `db:"phone_number" json:"phone_number"`
	SubscriptionPlanID    *int                `db:"subscription_plan_id" json:"subscription_plan_id"`
	PlanName              *string             `db:"plan_name" json:"plan_name"`
	CNIC                  *string             `db:"cnic" json:"cnic"`
	EmergencyContactName  string              `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string              `db:"emergency_contact_phone" json:"emergency_contact_phone"`
	BloodGroup            string              `db:"blood_group" json:"blood_group"`
	HealthConditions      string              `db:"health_conditions" json:"health_conditions"`
	Weight                decimal.NullDecimal `db:"weight" json:"weight"`
	Height                decimal.NullDecimal `db:"height" json:"height"`
	SubscriptionStart     *time.Time          `db:"subscription_start" json:"subscription_start"`
	SubscriptionEnd       *time.Time          `db:"subscription_end" json:"subscription_end"`
	Status                string              `db:"status" json:"status"`
	JoinDate              time.Time           `db:"join_date" json:"join_date"`
	Notes                 string              `db:"notes" json:"notes"`
	IsActive              bool                `db:"is_active" json:"is_active"`
	CreatedOn             time.Time           `db:"created_on" json:"created_on"`
	UpdatedOn             time.Time           `db:"updated_on" json:"updated_on"`

	DaysRemaining        int  `db:"-" json:"days_remaining"`
	IsSubscriptionActive bool `db:"-" json:"is_subscription_active"`
}

// Annotate fills the fields derived from the subscription end as of today.
func (m *Member) Annotate(today time.Time) {
	m.DaysRemaining = 0
	m.IsSubscriptionActive = false
	if m.SubscriptionEnd == nil {
		return
	}
	end := dates.Of(*m.SubscriptionEnd)
	m.IsSubscriptionActive = !end.Before(today)
	if days := int(end.Sub(today).Hours() / 24); days > 0 {
		m.DaysRemaining = days
	}
}

// Window is the part of a member that payments are allowed to move.
type Window struct {
	MemberID int        `db:"id"`
	PlanID   *int       `db:"subscription_plan_id"`
	Start    *time.Time `db:"subscription_start"`
	End      *time.Time `db:"subscription_end"`
	Status   string     `db:"status"`
}

// Contact is who receipts for a member go to.
type Contact struct {
	Email string `db:"email"`
	Name  string `db:"name"`
}

type Input struct {
	UserID                int              `json:"user_id" validate:"required,gt=0"`
	SubscriptionPlanID    *int             `json:"subscription_plan_id" validate:"omitempty,gt=0"`
	CNIC                  string           `json:"cnic" validate:"omitempty,max=15"`
	EmergencyContactName  string           `json:"emergency_contact_name" validate:"max=100"`
	EmergencyContactPhone string           `json:"emergency_contact_phone" validate:"max=20"`
	BloodGroup            string           `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HealthConditions      string           `json:"health_conditions"`
	Weight                *decimal.Decimal `json:"weight" validate:"omitempty,gt=0"`
	Height                *decimal.Decimal `json:"height" validate:"omitempty,gt=0"`
	SubscriptionStart     *string          `json:"subscription_start" validate:"omitempty,datetime=2006-01-02"`
	SubscriptionEnd       *string          `json:"subscription_end" validate:"omitempty,datetime=2006-01-02"`
	Status                string           `json:"status" validate:"omitempty,oneof=active expired cancelled pending"`
	JoinDate              *string          `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	Notes                 string           `json:"notes"`
	IsActive              *bool            `json:"is_active"`
}

func (in *Input) Clean() crud.ValidationErrors {
	start, errStart := dates.Parse(in.SubscriptionStart)
	end, errEnd := dates.Parse(in.SubscriptionEnd)
	if errStart != nil || errEnd != nil || start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return crud.FieldError("subscription_end", "invalid", "Subscription end date must be on or after the start date.")
	}
	return nil
}

func (in *Input) status() string {
	if in.Status == "" {
		return StatusPending
	}
	return in.Status
}

func (in *Input) cnic() *string {
	if in.CNIC == "" {
		return nil
	}
	return &in.CNIC
}

func (in *Input) isActive() bool {
	if in.IsActive == nil {
		return true
	}
	return *in.IsActive
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
