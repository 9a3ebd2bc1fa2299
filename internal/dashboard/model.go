package dashboard

import (
	"time"

	"gymdesk/internal/dates"

	"github.com/shopspring/decimal"
)

const (
	expiringWindowDays = 7
	expiringListSize   = 5
	recentPaymentsSize = 5
	chartMonths        = 6
	chartLabelLayout   = "Jan 2006"
)

// Stats is the dashboard read model. Keys are fixed; the page binds to them by name.
type Stats struct {
	TotalMembers    int `json:"total_members" db:"total_members"`
	ActiveMembers   int `json:"active_members" db:"active_members"`
	ExpiredMembers  int `json:"expired_members" db:"expired_members"`
	PendingMembers  int `json:"pending_members" db:"pending_members"`
	NewMembersToday int `json:"new_members_today" db:"new_members_today"`
	NewMembersMonth int `json:"new_members_month" db:"new_members_month"`
	ExpiringSoon    int `json:"expiring_soon" db:"expiring_soon"`

	ExpiringMembers []ExpiringMember `json:"expiring_members"`

	RevenueToday  decimal.Decimal `json:"revenue_today" db:"revenue_today"`
	RevenueMonth  decimal.Decimal `json:"revenue_month" db:"revenue_month"`
	RevenueYear   decimal.Decimal `json:"revenue_year" db:"revenue_year"`
	PaymentsToday int             `json:"payments_today" db:"payments_today"`
	PaymentsMonth int             `json:"payments_month" db:"payments_month"`

	ExpensesToday decimal.Decimal `json:"expenses_today" db:"expenses_today"`
	ExpensesMonth decimal.Decimal `json:"expenses_month" db:"expenses_month"`
	ExpensesYear  decimal.Decimal `json:"expenses_year" db:"expenses_year"`

	NetProfitMonth decimal.Decimal `json:"net_profit_month"`
	NetProfitYear  decimal.Decimal `json:"net_profit_year"`

	RecentPayments   []RecentPayment `json:"recent_payments"`
	PlanDistribution []PlanShare     `json:"plan_distribution"`

	ChartLabels   []string  `json:"chart_labels"`
	ChartRevenue  []float64 `json:"chart_revenue"`
	ChartExpenses []float64 `json:"chart_expenses"`

	PaymentMethods []MethodShare `json:"payment_methods"`
}

type ExpiringMember struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	PlanName        *string   `json:"plan_name" db:"plan_name"`
	SubscriptionEnd time.Time `json:"subscription_end" db:"subscription_end"`
}

type RecentPayment struct {
	ID            int             `json:"id" db:"id"`
	MemberID      int             `json:"member_id" db:"member_id"`
	MemberName    string          `json:"member_name" db:"member_name"`
	PlanName      *string         `json:"plan_name" db:"plan_name"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
}

type PlanShare struct {
	Name        string `json:"name" db:"name"`
	MemberCount int    `json:"member_count" db:"member_count"`
}

type MethodShare struct {
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Count         int             `json:"count" db:"count"`
	Total         decimal.Decimal `json:"total" db:"total"`
}

// monthTotal is one bucket of a monthly series.
type monthTotal struct {
	Month time.Time       `db:"month"`
	Total decimal.Decimal `db:"total"`
}

// Window holds the calendar boundaries every aggregate is computed against.
type Window struct {
	Today       time.Time
	MonthStart  time.Time
	YearStart   time.Time
	ExpiringEnd time.Time
	ChartStart  time.Time
}

func NewWindow(today time.Time) Window {
	monthStart := dates.MonthStart(today)
	return Window{
		Today:       today,
		MonthStart:  monthStart,
		YearStart:   time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		ExpiringEnd: today.AddDate(0, 0, expiringWindowDays),
		ChartStart:  monthStart.AddDate(0, -(chartMonths - 1), 0),
	}
}

// Months lists the chart buckets, oldest first.
func (w Window) Months() []time.Time {
	months := make([]time.Time, chartMonths)
	for i := range months {
		months[i] = w.ChartStart.AddDate(0, i, 0)
	}
	return months
}

// series lays the queried totals onto the fixed buckets. Months without rows
// read as zero so labels and both series always line up.
func series(months []time.Time, rows []monthTotal) []float64 {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byMonth[r.Month.Format("2006-01")] = r.Total
	}

	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = byMonth[m.Format("2006-01")].InexactFloat64()
	}
	return out
}

func labels(months []time.Time) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.Format(chartLabelLayout)
	}
	return out
}
