package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/crud"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrPaymentNotFound = fmt.Errorf("payment %w", crud.ErrNotFound)

const (
	listColumns = `p.id, p.member_id, TRIM(u.first_name || ' ' || u.last_name) AS member_name,
	p.subscription_plan_id, sp.name AS plan_name, p.amount, p.discount, (p.amount - p.discount) AS net_amount,
	p.payment_method, p.payment_date, p.reference_number, p.notes, p.status, p.period_start, p.period_end,
	p.received_by, p.created_on, p.updated_on`

	listFrom = `payments p
	JOIN members m ON m.id = p.member_id
	JOIN users u ON u.id = m.user_id
	LEFT JOIN subscription_plans sp ON sp.id = p.subscription_plan_id`

	entryColumns = `id, member_id, subscription_plan_id, amount, discount, payment_method, payment_date,
	reference_number, notes, status, period_start, period_end, received_by`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, q db.Querier, e *Entry) (int, error) {
	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO payments
			(member_id, subscription_plan_id, amount, discount, payment_method, payment_date,
			 reference_number, notes, status, period_start, period_end, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		e.MemberID, e.PlanID, e.Amount, e.Discount, e.Method, e.PaidAt,
		e.Reference, e.Notes, e.Status, e.PeriodStart, e.PeriodEnd, e.ReceivedBy,
	).Scan(&id)
	if err != nil {
		return 0, writeError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, q db.Querier, id int, e *Entry) error {
	res, err := q.ExecContext(ctx, `
		UPDATE payments
		SET member_id = $1, subscription_plan_id = $2, amount = $3, discount = $4, payment_method = $5,
		    payment_date = $6, reference_number = $7, notes = $8, status = $9, period_start = $10,
		    period_end = $11, received_by = $12, updated_on = NOW()
		WHERE id = $13`,
		e.MemberID, e.PlanID, e.Amount, e.Discount, e.Method, e.PaidAt,
		e.Reference, e.Notes, e.Status, e.PeriodStart, e.PeriodEnd, e.ReceivedBy, id,
	)
	if err != nil {
		return writeError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// GetForUpdate reads the stored entry and locks it for the rest of the transaction.
func (r *repository) GetForUpdate(ctx context.Context, q db.Querier, id int) (*Entry, error) {
	var e Entry
	err := q.GetContext(ctx, &e, `SELECT `+entryColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Get(ctx context.Context, q db.Querier, id int) (*Payment, error) {
	var p Payment
	err := q.GetContext(ctx, &p, `SELECT `+listColumns+` FROM `+listFrom+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) CountForMember(ctx context.Context, q db.Querier, memberID int) (int, error) {
	var n int
	err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM payments WHERE member_id = $1`, memberID)
	return n, err
}

func (r *repository) ListForMember(ctx context.Context, q db.Querier, memberID, limit, offset int) ([]Payment, error) {
	payments := []Payment{}
	err := q.SelectContext(ctx, &payments, `
		SELECT `+listColumns+`
		FROM `+listFrom+`
		WHERE p.member_id = $1
		ORDER BY p.payment_date DESC, p.id DESC
		LIMIT $2 OFFSET $3`, memberID, limit, offset)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func writeError(err error) error {
	if db.IsForeignKeyViolation(err) {
		return crud.FieldError(crud.NonFieldErrors, "invalid", "The selected member or plan does not exist.")
	}
	return err
}
