package expense

import (
	"context"
	"time"

	"gymdesk/internal/db"
)

type Repository interface {
	Create(ctx context.Context, q db.Querier, in *Input, addedBy *int, today time.Time) (int, error)
	Update(ctx context.Context, q db.Querier, id int, in *Input) error
}
