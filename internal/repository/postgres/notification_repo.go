// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"leaddesk-service/internal/domain/notification"
	xerrors "leaddesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationQuery selects one page of a user's inbox.
type NotificationQuery struct {
	UserID int64
	IsRead *bool
	Limit  int
	Offset int
}

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, title, message, type, metadata, is_read, created_at, read_at`

// Create stores n and fills in its id and creation time. Metadata is written as JSONB.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		n.UserID, n.Title, n.Message, string(n.Type), n.Metadata,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns one page of the inbox, newest first, plus the filtered total.
// A nil IsRead matches both states.
func (r *NotificationRepository) List(ctx context.Context, q NotificationQuery) ([]notification.Notification, int64, error) {
	const where = `WHERE user_id = $1 AND ($2::boolean IS NULL OR is_read = $2)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications `+where, q.UserID, q.IsRead).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		q.UserID, q.IsRead, q.Limit, q.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query notifications: %w", err)
	}

	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[notification.Notification])
	if err != nil {
		return nil, 0, fmt.Errorf("scan notifications: %w", err)
	}
	if list == nil {
		list = []notification.Notification{}
	}
	return list, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkAsRead only touches rows owned by userID; anything else reads as not found.
// read_at keeps its first value on repeat calls.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	err := r.db.QueryRow(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
		RETURNING id`, id, userID,
	).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return xerrors.NotFound("Notification")
	case err != nil:
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllAsRead returns how many entries changed.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = NOW() WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
