package dashboard

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Load(ctx context.Context, w Window) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const memberCountsQuery = `
	SELECT
		COUNT(*) FILTER (WHERE is_active) AS total_members,
		COUNT(*) FILTER (WHERE is_active AND status = 'active') AS active_members,
		COUNT(*) FILTER (WHERE is_active AND status = 'expired') AS expired_members,
		COUNT(*) FILTER (WHERE is_active AND status = 'pending') AS pending_members,
		COUNT(*) FILTER (WHERE join_date = $1) AS new_members_today,
		COUNT(*) FILTER (WHERE join_date >= $2) AS new_members_month,
		COUNT(*) FILTER (WHERE status = 'active' AND subscription_end BETWEEN $1 AND $3) AS expiring_soon
	FROM members
`

const expiringMembersQuery = `
	SELECT m.id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, sp.name AS plan_name, m.subscription_end
	FROM members m
	JOIN users u ON u.id = m.user_id
	LEFT JOIN subscription_plans sp ON sp.id = m.subscription_plan_id
	WHERE m.status = 'active' AND m.subscription_end BETWEEN $1 AND $2
	ORDER BY m.subscription_end, m.id
	LIMIT $3
`

const revenueQuery = `
	SELECT
		COALESCE(SUM(amount) FILTER (WHERE payment_date::date = $1), 0) AS revenue_today,
		COALESCE(SUM(amount) FILTER (WHERE payment_date::date >= $2), 0) AS revenue_month,
		COALESCE(SUM(amount) FILTER (WHERE payment_date::date >= $3), 0) AS revenue_year,
		COUNT(*) FILTER (WHERE payment_date::date = $1) AS payments_today,
		COUNT(*) FILTER (WHERE payment_date::date >= $2) AS payments_month
	FROM payments
	WHERE status = 'paid'
`

const expenseQuery = `
	SELECT
		COALESCE(SUM(amount) FILTER (WHERE expense_date = $1), 0) AS expenses_today,
		COALESCE(SUM(amount) FILTER (WHERE expense_date >= $2), 0) AS expenses_month,
		COALESCE(SUM(amount) FILTER (WHERE expense_date >= $3), 0) AS expenses_year
	FROM expenses
`

const recentPaymentsQuery = `
	SELECT p.id, p.member_id, TRIM(u.first_name || ' ' || u.last_name) AS member_name, sp.name AS plan_name,
	       p.amount, p.payment_method, p.payment_date
	FROM payments p
	JOIN members m ON m.id = p.member_id
	JOIN users u ON u.id = m.user_id
	LEFT JOIN subscription_plans sp ON sp.id = p.subscription_plan_id
	WHERE p.status = 'paid'
	ORDER BY p.payment_date DESC, p.id DESC
	LIMIT $1
`

const planDistributionQuery = `
	SELECT sp.name, COUNT(m.id) AS member_count
	FROM subscription_plans sp
	LEFT JOIN members m ON m.subscription_plan_id = sp.id AND m.status = 'active'
	WHERE sp.is_active
	GROUP BY sp.id, sp.name
	ORDER BY member_count DESC, sp.name
`

const revenueByMonthQuery = `
	SELECT date_trunc('month', payment_date::date)::date AS month, SUM(amount) AS total
	FROM payments
	WHERE status = 'paid' AND payment_date::date >= $1
	GROUP BY 1
	ORDER BY 1
`

const expensesByMonthQuery = `
	SELECT date_trunc('month', expense_date)::date AS month, SUM(amount) AS total
	FROM expenses
	WHERE expense_date >= $1
	GROUP BY 1
	ORDER BY 1
`

const paymentMethodsQuery = `
	SELECT payment_method, COUNT(*) AS count, SUM(amount) AS total
	FROM payments
	WHERE status = 'paid' AND payment_date::date >= $1
	GROUP BY payment_method
	ORDER BY total DESC, payment_method
`

func (r *repository) Load(ctx context.Context, w Window) (*Stats, error) {
	var s Stats

	if err := r.db.GetContext(ctx, &s, memberCountsQuery, w.Today, w.MonthStart, w.ExpiringEnd); err != nil {
		return nil, err
	}

	s.ExpiringMembers = []ExpiringMember{}
	if err := r.db.SelectContext(ctx, &s.ExpiringMembers, expiringMembersQuery, w.Today, w.ExpiringEnd, expiringListSize); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &s, revenueQuery, w.Today, w.MonthStart, w.YearStart); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &s, expenseQuery, w.Today, w.MonthStart, w.YearStart); err != nil {
		return nil, err
	}

	s.NetProfitMonth = s.RevenueMonth.Sub(s.ExpensesMonth)
	s.NetProfitYear = s.RevenueYear.Sub(s.ExpensesYear)

	s.RecentPayments = []RecentPayment{}
	if err := r.db.SelectContext(ctx, &s.RecentPayments, recentPaymentsQuery, recentPaymentsSize); err != nil {
		return nil, err
	}

	s.PlanDistribution = []PlanShare{}
	if err := r.db.SelectContext(ctx, &s.PlanDistribution, planDistributionQuery); err != nil {
		return nil, err
	}

	var revenue, expenses []monthTotal
	if err := r.db.SelectContext(ctx, &revenue, revenueByMonthQuery, w.ChartStart); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &expenses, expensesByMonthQuery, w.ChartStart); err != nil {
		return nil, err
	}

	months := w.Months()
	s.ChartLabels = labels(months)
	s.ChartRevenue = series(months, revenue)
	s.ChartExpenses = series(months, expenses)

	s.PaymentMethods = []MethodShare{}
	if err := r.db.SelectContext(ctx, &s.PaymentMethods, paymentMethodsQuery, w.MonthStart); err != nil {
		return nil, err
	}

	return &s, nil
}
