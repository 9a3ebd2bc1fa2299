package plan

import (
	"context"

	"gymdesk/internal/db"
)

type Repository interface {
	GetByID(ctx context.Context, q db.Querier, id int) (*Plan, error)
	Create(ctx context.Context, q db.Querier, in *Input) (int, error)
	Update(ctx context.Context, q db.Querier, id int, in *Input) error
	IsReferenced(ctx context.Context, q db.Querier, id int) (bool, error)
	ListActive(ctx context.Context) ([]Plan, error)
}
