package payment

import (
	"context"

	"gymdesk/internal/db"
)

type Repository interface {
	Insert(ctx context.Context, q db.Querier, e *Entry) (int, error)
	Update(ctx context.Context, q db.Querier, id int, e *Entry) error
	GetForUpdate(ctx context.Context, q db.Querier, id int) (*Entry, error)
	Get(ctx context.Context, q db.Querier, id int) (*Payment, error)
	CountForMember(ctx context.Context, q db.Querier, memberID int) (int, error)
	ListForMember(ctx context.Context, q db.Querier, memberID, limit, offset int) ([]Payment, error)
}
