package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/crud"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNotificationNotFound = fmt.Errorf("notification %w", crud.ErrNotFound)

const columns = `id, recipient, subject, body, status, failed_attempts, template_name, error_message,
	content_type, object_id, created_on, updated_on`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// InsertPending writes one pending record per recipient in a single statement.
func (r *repository) InsertPending(ctx context.Context, recipients []string, subject, body, template string, link *Link) ([]int, error) {
	var contentType *string
	var objectID *int
	if link != nil {
		contentType, objectID = &link.ContentType, &link.ObjectID
	}

	ids := []int{}
	err := r.db.SelectContext(ctx, &ids, `
		INSERT INTO email_notifications (recipient, subject, body, status, template_name, content_type, object_id)
		SELECT rcpt, $2, $3, 'pending', $4, $5, $6
		FROM unnest($1::text[]) AS rcpt
		RETURNING id`,
		pq.Array(recipients), subject, body, template, contentType, objectID,
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) MarkSent(ctx context.Context, ids []int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE email_notifications
		SET status = 'sent', error_message = '', updated_on = NOW()
		WHERE id = ANY($1)`, pq.Array(int64s(ids)))
	return err
}

func (r *repository) MarkFailed(ctx context.Context, ids []int, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE email_notifications
		SET status = 'failed', failed_attempts = failed_attempts + 1, error_message = $2, updated_on = NOW()
		WHERE id = ANY($1)`, pq.Array(int64s(ids)), reason)
	return err
}

func (r *repository) MarkRetry(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_notifications
		SET status = 'retry', updated_on = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Notification, error) {
	var n Notification
	err := r.db.GetContext(ctx, &n, `SELECT `+columns+` FROM email_notifications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
