package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AuditLogRepository define el puerto de persistencia de la bitácora de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByResource(ctx context.Context, resource, resourceID string) ([]*entity.AuditLog, error)
}
