package member

import (
	"context"
	"time"

	"gymdesk/internal/db"
)

type Repository interface {
	Create(ctx context.Context, q db.Querier, in *Input, today time.Time) (int, error)
	Update(ctx context.Context, q db.Querier, id int, in *Input) error
	LockWindow(ctx context.Context, q db.Querier, id int) (*Window, error)
	SaveWindow(ctx context.Context, q db.Querier, w *Window) error
	Contact(ctx context.Context, q db.Querier, id int) (*Contact, error)
	RefreshStatuses(ctx context.Context, today time.Time) (int64, error)
}
