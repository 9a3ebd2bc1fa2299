package reference

import (
	"context"
	"fmt"

	"gymdesk/internal/crud"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCountryNotFound = fmt.Errorf("country %w", crud.ErrNotFound)
	ErrStateNotFound   = fmt.Errorf("state %w", crud.ErrNotFound)
)

const (
	countryColumns = `id, name, short_name, language, currency, phone_code, is_services_available, is_active,
	created_on, updated_on`

	stateColumns = `s.id, s.name, s.country_id, c.name AS country_name, s.is_active, s.created_on, s.updated_on`
	stateFrom    = `states s JOIN countries c ON c.id = s.country_id`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCountry(ctx context.Context, q db.Querier, in *CountryInput) (int, error) {
	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO countries (name, short_name, language, currency, phone_code, is_services_available, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		in.Name, in.ShortName, in.Language, in.Currency, in.PhoneCode, in.IsServicesAvailable, active(in.IsActive),
	).Scan(&id)
	if err != nil {
		return 0, countryError(err)
	}
	return id, nil
}

func (r *repository) UpdateCountry(ctx context.Context, q db.Querier, id int, in *CountryInput) error {
	res, err := q.ExecContext(ctx, `
		UPDATE countries
		SET name = $1, short_name = $2, language = $3, currency = $4, phone_code = $5,
		    is_services_available = $6, is_active = $7, updated_on = NOW()
		WHERE id = $8`,
		in.Name, in.ShortName, in.Language, in.Currency, in.PhoneCode, in.IsServicesAvailable, active(in.IsActive), id,
	)
	if err != nil {
		return countryError(err)
	}
	return affected(res.RowsAffected, ErrCountryNotFound)
}

func (r *repository) CreateState(ctx context.Context, q db.Querier, in *StateInput) (int, error) {
	var id int
	err := q.QueryRowxContext(ctx, `
		INSERT INTO states (name, country_id, is_active)
		VALUES ($1, $2, $3)
		RETURNING id`,
		in.Name, in.CountryID, active(in.IsActive),
	).Scan(&id)
	if err != nil {
		return 0, stateError(err)
	}
	return id, nil
}

func (r *repository) UpdateState(ctx context.Context, q db.Querier, id int, in *StateInput) error {
	res, err := q.ExecContext(ctx, `
		UPDATE states
		SET name = $1, country_id = $2, is_active = $3, updated_on = NOW()
		WHERE id = $4`,
		in.Name, in.CountryID, active(in.IsActive), id,
	)
	if err != nil {
		return stateError(err)
	}
	return affected(res.RowsAffected, ErrStateNotFound)
}

func (r *repository) CountStates(ctx context.Context, q db.Querier, countryID int) (int, error) {
	var n int
	err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM states WHERE country_id = $1`, countryID)
	return n, err
}

func (r *repository) ListStates(ctx context.Context, q db.Querier, countryID, limit, offset int) ([]State, error) {
	states := []State{}
	err := q.SelectContext(ctx, &states, `
		SELECT `+stateColumns+`
		FROM `+stateFrom+`
		WHERE s.country_id = $1
		ORDER BY s.name, s.id
		LIMIT $2 OFFSET $3`, countryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return states, nil
}

func affected(rows func() (int64, error), notFound error) error {
	n, err := rows()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func countryError(err error) error {
	if _, ok := db.IsUniqueViolation(err); ok {
		return crud.FieldError("name", "unique", "Country with this name already exists.")
	}
	return err
}

func stateError(err error) error {
	if _, ok := db.IsUniqueViolation(err); ok {
		return crud.FieldError("name", "unique", "This country already has a state with this name.")
	}
	if db.IsForeignKeyViolation(err) {
		return crud.FieldError("country_id", "invalid", "Select a valid country.")
	}
	return err
}
