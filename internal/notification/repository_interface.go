package notification

import "context"

type Repository interface {
	InsertPending(ctx context.Context, recipients []string, subject, body, template string, link *Link) ([]int, error)
	MarkSent(ctx context.Context, ids []int) error
	MarkFailed(ctx context.Context, ids []int, reason string) error
	MarkRetry(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*Notification, error)
}
