package expense

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/crud"
	"gymdesk/internal/dates"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrExpenseNotFound = fmt.Errorf("expense %w", crud.ErrNotFound)

const (
	listColumns = `e.id, e.category, e.amount, e.description, e.expense_date, e.payment_method,
	e.reference_number, e.added_by, NULLIF(TRIM(u.first_name || ' ' || u.last_name), '') AS added_by_name,
	e.is_recurring, e.created_on, e.updated_on`

	listFrom = `expenses e
	LEFT JOIN users u ON u.id = e.added_by`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q db.Querier, in *Input, addedBy *int, today time.Time) (int, error) {
	spent, _ := dates.Parse(in.ExpenseDate)
	if spent == nil {
		spent = &today
	}

	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO expenses
			(category, amount, description, expense_date, payment_method, reference_number, added_by, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		in.Category, *in.Amount, in.Description, *spent, in.method(), in.ReferenceNumber, addedBy, in.IsRecurring,
	).Scan(&id)
	return id, err
}

// Update keeps added_by: the recorder of an expense never changes.
func (r *repository) Update(ctx context.Context, q db.Querier, id int, in *Input) error {
	spent, _ := dates.Parse(in.ExpenseDate)

	res, err := q.ExecContext(ctx, `
		UPDATE expenses
		SET category = $1, amount = $2, description = $3, expense_date = COALESCE($4, expense_date),
		    payment_method = $5, reference_number = $6, is_recurring = $7, updated_on = NOW()
		WHERE id = $8`,
		in.Category, *in.Amount, in.Description, spent, in.method(), in.ReferenceNumber, in.IsRecurring, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
