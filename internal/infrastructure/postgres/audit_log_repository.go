package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora de auditoría (audit_logs). Se escribe fuera de la transacción de posteo.
type AuditLogRepo struct {
	q Querier
}

func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, resource, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, nullable(l.UserID), l.Action, l.Resource, l.ResourceID, []byte(l.Details), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepo) ListByResource(ctx context.Context, resource, resourceID string) ([]*entity.AuditLog, error) {
	var w whereBuilder
	w.add("resource = ?", resource)
	if resourceID != "" {
		w.add("resource_id = ?", resourceID)
	}
	rows, err := r.q.Query(ctx, `SELECT id, user_id, action, resource, resource_id, details, created_at
		FROM audit_logs`+w.sql()+` ORDER BY created_at`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var (
			l       entity.AuditLog
			user    *string
			details []byte
		)
		if err := rows.Scan(&l.ID, &user, &l.Action, &l.Resource, &l.ResourceID, &details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.UserID = deref(user)
		l.Details = details
		list = append(list, &l)
	}
	return list, rows.Err()
}
