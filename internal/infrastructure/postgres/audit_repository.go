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

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL. Append-only:
// el adaptador no expone UPDATE; el único DELETE es la poda por retención.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditSelect = `
	SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.detail,
	       a.created_at, u.name, u.email
	FROM audit_logs a
	LEFT JOIN users u ON u.id = a.user_id`

// Create inserta un asiento de auditoría.
func (r *AuditRepo) Create(e *entity.AuditEntry) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Action, nullableText(e.EntityType),
		nullableText(e.EntityID), e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", translateErr(err))
	}
	return nil
}

// List lista asientos según filtros, más recientes primero.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	sql, args := buildAuditFilter(auditSelect, f, true)
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", translateErr(err))
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

// Count cuenta asientos según filtros.
func (r *AuditRepo) Count(f repository.AuditFilter) (int, error) {
	sql, args := buildAuditFilter(`SELECT COUNT(*) FROM audit_logs a`, f, false)
	var count int
	if err := r.q.QueryRow(context.Background(), sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", translateErr(err))
	}
	return count, nil
}

// ListByUser últimos asientos de un usuario.
func (r *AuditRepo) ListByUser(userID string, limit int) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(context.Background(),
		auditSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit by user: %w", translateErr(err))
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

// DeleteOlderThan poda por retención; devuelve asientos eliminados.
func (r *AuditRepo) DeleteOlderThan(days int) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `
		DELETE FROM audit_logs
		WHERE created_at < CURRENT_DATE - make_interval(days => $1)`, days)
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", translateErr(err))
	}
	return tag.RowsAffected(), nil
}

func buildAuditFilter(base string, f repository.AuditFilter, paginate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(" WHERE 1=1")
	var args []any

	if f.UserID != "" {
		args = append(args, f.UserID)
		sb.WriteString(" AND a.user_id = $" + strconv.Itoa(len(args)))
	}
	if f.EntityType != "" {
		args = append(args, f.EntityType)
		sb.WriteString(" AND a.entity_type = $" + strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(" AND a.created_at >= $" + strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(" AND a.created_at <= $" + strconv.Itoa(len(args)))
	}
	if paginate {
		sb.WriteString(" ORDER BY a.created_at DESC")
		limit := f.Limit
		if limit <= 0 {
			limit = 50
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

func scanAuditEntries(rows pgx.Rows) ([]*entity.AuditEntry, error) {
	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var entityType, entityID, userName, userEmail *string
		err := rows.Scan(&e.ID, &e.UserID, &e.Action, &entityType, &entityID,
			&e.Detail, &e.CreatedAt, &userName, &userEmail)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("scan audit entry: %w", translateErr(err))
		}
		if entityType != nil {
			e.EntityType = *entityType
		}
		if entityID != nil {
			e.EntityID = *entityID
		}
		if userName != nil {
			e.UserName = *userName
		}
		if userEmail != nil {
			e.UserEmail = *userEmail
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
