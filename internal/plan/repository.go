package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/crud"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPlanNotFound = fmt.Errorf("subscription plan %w", crud.ErrNotFound)
	ErrPlanInactive = errors.New("subscription plan is inactive")
)

const columns = `id, name, duration_days, price, description, has_personal_trainer, has_locker,
	has_cardio_access, has_weight_training, is_active, created_on, updated_on`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, q db.Querier, id int) (*Plan, error) {
	var p Plan
	err := q.GetContext(ctx, &p, `SELECT `+columns+` FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, q db.Querier, in *Input) (int, error) {
	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO subscription_plans
			(name, duration_days, price, description, has_personal_trainer, has_locker,
			 has_cardio_access, has_weight_training, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		in.Name, in.DurationDays, in.price(), in.Description, in.HasPersonalTrainer, in.HasLocker,
		boolOr(in.HasCardioAccess, true), boolOr(in.HasWeightTraining, true), boolOr(in.IsActive, true),
	).Scan(&id)
	if err != nil {
		return 0, nameError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, q db.Querier, id int, in *Input) error {
	res, err := q.ExecContext(ctx, `
		UPDATE subscription_plans
		SET name = $1, duration_days = $2, price = $3, description = $4, has_personal_trainer = $5,
		    has_locker = $6, has_cardio_access = $7, has_weight_training = $8, is_active = $9,
		    updated_on = NOW()
		WHERE id = $10`,
		in.Name, in.DurationDays, in.price(), in.Description, in.HasPersonalTrainer, in.HasLocker,
		boolOr(in.HasCardioAccess, true), boolOr(in.HasWeightTraining, true), boolOr(in.IsActive, true), id,
	)
	if err != nil {
		return nameError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *repository) IsReferenced(ctx context.Context, q db.Querier, id int) (bool, error) {
	return db.Exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM payments WHERE subscription_plan_id = $1)`, id)
}

func (r *repository) ListActive(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans,
		`SELECT `+columns+` FROM subscription_plans WHERE is_active = TRUE ORDER BY price, id`)
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func nameError(err error) error {
	if _, ok := db.IsUniqueViolation(err); ok {
		return crud.FieldError("name", "unique", "Subscription plan with this name already exists.")
	}
	return err
}
