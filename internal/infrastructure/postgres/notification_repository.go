package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
// El destinatario broadcast se persiste como user_id NULL; esa representación
// no sale de este adaptador (el dominio usa entity.Recipient).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de notificaciones.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta una notificación.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	var userID *string
	if id, ok := n.Recipient.UserID(); ok {
		userID = &id
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO notifications (id, user_id, severity, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, userID, n.Severity, n.Title, n.Body, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", translateErr(err))
	}
	return nil
}

// GetByID obtiene una notificación.
func (r *NotificationRepo) GetByID(id string) (*entity.Notification, error) {
	row := r.q.QueryRow(context.Background(), `
		SELECT id, user_id, severity, title, body, read, created_at
		FROM notifications WHERE id = $1`, id)
	return scanNotification(row)
}

// ListForUser lista la unión de broadcast y dirigidas al usuario.
func (r *NotificationRepo) ListForUser(userID string, f repository.NotificationFilter) ([]*entity.Notification, error) {
	sql, args := buildNotificationFilter(`
		SELECT id, user_id, severity, title, body, read, created_at
		FROM notifications`, userID, f, true)
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", translateErr(err))
	}
	defer rows.Close()

	var items []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// CountForUser cuenta las visibles para el usuario según filtros.
func (r *NotificationRepo) CountForUser(userID string, f repository.NotificationFilter) (int, error) {
	sql, args := buildNotificationFilter(`SELECT COUNT(*) FROM notifications`, userID, f, false)
	var count int
	if err := r.q.QueryRow(context.Background(), sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", translateErr(err))
	}
	return count, nil
}

// MarkRead marca una notificación como leída.
func (r *NotificationRepo) MarkRead(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca como leídas todas las visibles para el usuario.
func (r *NotificationRepo) MarkAllRead(userID string) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE notifications SET read = TRUE
		WHERE (user_id = $1 OR user_id IS NULL) AND read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", translateErr(err))
	}
	return nil
}

// UnreadCount cuenta las no leídas visibles para el usuario.
func (r *NotificationRepo) UnreadCount(userID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM notifications
		WHERE (user_id = $1 OR user_id IS NULL) AND read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", translateErr(err))
	}
	return count, nil
}

// DeleteAllForUser elimina todas las visibles para el usuario.
func (r *NotificationRepo) DeleteAllForUser(userID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM notifications WHERE user_id = $1 OR user_id IS NULL`, userID)
	if err != nil {
		return fmt.Errorf("delete all notifications: %w", translateErr(err))
	}
	return nil
}

func buildNotificationFilter(base, userID string, f repository.NotificationFilter, paginate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	args := []any{userID}
	sb.WriteString(" WHERE (user_id = $1 OR user_id IS NULL)")

	if f.Read != nil {
		args = append(args, *f.Read)
		sb.WriteString(" AND read = $" + strconv.Itoa(len(args)))
	}
	if f.Severity != "" {
		args = append(args, f.Severity)
		sb.WriteString(" AND severity = $" + strconv.Itoa(len(args)))
	}
	if paginate {
		sb.WriteString(" ORDER BY created_at DESC")
		limit := f.Limit
		if limit <= 0 {
			limit = 20
		}
		args = append(args, limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
		}
	}
	return sb.String(), args
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	var userID *string
	err := row.Scan(&n.ID, &userID, &n.Severity, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", translateErr(err))
	}
	if userID != nil {
		n.Recipient = entity.TargetedAt(*userID)
	} else {
		n.Recipient = entity.BroadcastRecipient()
	}
	return &n, nil
}
