package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
)

// NotificationRepository stores overdue-ticket notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// HasUnread reports whether an unread notification already exists for the
	// (ticket, recipient) pair. The sweep calls this before inserting.
	HasUnread(ctx context.Context, ticketID, userID string) (bool, error)
	ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnreadByUser(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notificacoes (user_id, chamado_id, mensagem, visualizada)
        VALUES ($1,$2,$3,false)
        RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.TicketID,
		notification.Message,
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		return err
	}
	notification.Unread = true
	return nil
}

func (r *notificationRepository) HasUnread(ctx context.Context, ticketID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM notificacoes
            WHERE chamado_id=$1 AND user_id=$2 AND visualizada=false
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, ticketID, userID).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, user_id, chamado_id, mensagem, visualizada, created_at
        FROM notificacoes
        WHERE user_id=$1 AND visualizada=false
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		var read bool
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.TicketID,
			&notification.Message,
			&read,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notification.Unread = !read
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notificacoes WHERE user_id=$1 AND visualizada=false`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notificacoes SET visualizada=true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notificacoes SET visualizada=true WHERE user_id=$1 AND visualizada=false`, userID)
	return err
}
