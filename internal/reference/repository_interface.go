package reference

import (
	"context"

	"gymdesk/internal/db"
)

type Repository interface {
	CreateCountry(ctx context.Context, q db.Querier, in *CountryInput) (int, error)
	UpdateCountry(ctx context.Context, q db.Querier, id int, in *CountryInput) error
	CreateState(ctx context.Context, q db.Querier, in *StateInput) (int, error)
	UpdateState(ctx context.Context, q db.Querier, id int, in *StateInput) error
	CountStates(ctx context.Context, q db.Querier, countryID int) (int, error)
	ListStates(ctx context.Context, q db.Querier, countryID, limit, offset int) ([]State, error)
}
