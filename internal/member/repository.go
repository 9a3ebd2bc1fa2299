package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/crud"
	"gymdesk/internal/dates"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = fmt.Errorf("member %w", crud.ErrNotFound)

const (
	listColumns = `m.id, m.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, u.phone_number,
	m.subscription_plan_id, sp.name AS plan_name, m.cnic, m.emergency_contact_name, m.emergency_contact_phone,
	m.blood_group, m.health_conditions, m.weight, m.height, m.subscription_start, m.subscription_end,
	m.status, m.join_date, m.notes, m.is_active, m.created_on, m.updated_on`

	listFrom = `members m
	JOIN users u ON u.id = m.user_id
	LEFT JOIN subscription_plans sp ON sp.id = m.subscription_plan_id`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q db.Querier, in *Input, today time.Time) (int, error) {
	start, _ := dates.Parse(in.SubscriptionStart)
	end, _ := dates.Parse(in.SubscriptionEnd)
	joined, _ := dates.Parse(in.JoinDate)
	if joined == nil {
		joined = &today
	}

	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO members
			(user_id, subscription_plan_id, cnic, emergency_contact_name, emergency_contact_phone,
			 blood_group, health_conditions, weight, height, subscription_start, subscription_end,
			 status, join_date, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		in.UserID, in.SubscriptionPlanID, in.cnic(), in.EmergencyContactName, in.EmergencyContactPhone,
		in.BloodGroup, in.HealthConditions, nullDecimal(in.Weight), nullDecimal(in.Height), start, end,
		in.status(), *joined, in.Notes, in.isActive(),
	).Scan(&id)
	if err != nil {
		return 0, writeError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, q db.Querier, id int, in *Input) error {
	start, _ := dates.Parse(in.SubscriptionStart)
	end, _ := dates.Parse(in.SubscriptionEnd)
	joined, _ := dates.Parse(in.JoinDate)

	res, err := q.ExecContext(ctx, `
		UPDATE members
		SET user_id = $1, subscription_plan_id = $2, cnic = $3, emergency_contact_name = $4,
		    emergency_contact_phone = $5, blood_group = $6, health_conditions = $7, weight = $8,
		    height = $9, subscription_start = $10, subscription_end = $11, status = $12,
		    join_date = COALESCE($13, join_date), notes = $14, is_active = $15, updated_on = NOW()
		WHERE id = $16`,
		in.UserID, in.SubscriptionPlanID, in.cnic(), in.EmergencyContactName, in.EmergencyContactPhone,
		in.BloodGroup, in.HealthConditions, nullDecimal(in.Weight), nullDecimal(in.Height), start, end,
		in.status(), joined, in.Notes, in.isActive(), id,
	)
	if err != nil {
		return writeError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// LockWindow reads the subscription window and holds the row until the
// transaction ends, so concurrent payments for one member serialize.
func (r *repository) LockWindow(ctx context.Context, q db.Querier, id int) (*Window, error) {
	var w Window
	err := q.GetContext(ctx, &w, `
		SELECT id, subscription_plan_id, subscription_start, subscription_end, status
		FROM members
		WHERE id = $1
		FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &w, nil
}

// SaveWindow writes only the window, status and plan columns.
func (r *repository) SaveWindow(ctx context.Context, q db.Querier, w *Window) error {
	_, err := q.ExecContext(ctx, `
		UPDATE members
		SET subscription_start = $1, subscription_end = $2, status = $3, subscription_plan_id = $4,
		    updated_on = NOW()
		WHERE id = $5`,
		w.Start, w.End, w.Status, w.PlanID, w.MemberID,
	)
	return err
}

func (r *repository) Contact(ctx context.Context, q db.Querier, id int) (*Contact, error) {
	var c Contact
	err := q.GetContext(ctx, &c, `
		SELECT u.email, TRIM(u.first_name || ' ' || u.last_name) AS name
		FROM members m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &c, nil
}

// RefreshStatuses expires active members whose window ended before today.
// Cancelled and pending members are left alone.
func (r *repository) RefreshStatuses(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET status = 'expired', updated_on = NOW()
		WHERE status = 'active' AND subscription_end < $1`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func writeError(err error) error {
	if constraint, ok := db.IsUniqueViolation(err); ok {
		switch constraint {
		case "members_user_id_key":
			return crud.FieldError("user_id", "unique", "Member with this user already exists.")
		case "members_cnic_key":
			return crud.FieldError("cnic", "unique", "Member with this CNIC already exists.")
		}
		return crud.FieldError(crud.NonFieldErrors, "unique", "A member with these details already exists.")
	}
	if db.IsForeignKeyViolation(err) {
		return crud.FieldError(crud.NonFieldErrors, "invalid", "The selected user or plan does not exist.")
	}
	return err
}
