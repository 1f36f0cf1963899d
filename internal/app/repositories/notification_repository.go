package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

var notificationColumns = []string{
	"id", "user_id", "title", "content", "is_read", "type", "related_id", "created_at",
}

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: pool}
}

func (r *NotificationRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.IsRead, &n.Type, &n.RelatedID, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, q db.Querier, n *models.Notification) error {
	sql, args, err := squirrel.Insert("notifications").
		Columns("user_id", "title", "content", "is_read", "type", "related_id").
		Values(n.UserID, n.Title, n.Content, n.IsRead, n.Type, n.RelatedID).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn(q).QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create notification query")
		return err
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Notification, error) {
	sql, args, err := squirrel.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanNotification(r.conn(q).QueryRow(ctx, sql, args...))
}

// ListByUser retrieves a user's notifications, newest first, optionally
// filtered by read state.
func (r *NotificationRepository) ListByUser(ctx context.Context, q db.Querier, userID uuid.UUID, isRead *bool) ([]*models.Notification, error) {
	b := squirrel.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if isRead != nil {
		b = b.Where(squirrel.Eq{"is_read": *isRead})
	}

	sql, args, err := b.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(q).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a single notification as read. Scoped to the owner so a
// user cannot mark someone else's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, q db.Querier, id, userID uuid.UUID) error {
	tag, err := r.conn(q).Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of a user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, q db.Querier, userID uuid.UUID) (int64, error) {
	tag, err := r.conn(q).Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
