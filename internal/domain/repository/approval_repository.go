package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ApprovalRequestRepository define el puerto de persistencia de solicitudes de aprobación.
type ApprovalRequestRepository interface {
	Create(ctx context.Context, req *entity.ApprovalRequest) error
	GetByID(ctx context.Context, id string) (*entity.ApprovalRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ApprovalRequest, error)
	// FindPending solicitud PENDING para el documento, o (nil, nil).
	FindPending(ctx context.Context, kind entity.ApprovalKind, entityID string) (*entity.ApprovalRequest, error)
	Update(ctx context.Context, req *entity.ApprovalRequest) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.ApprovalRequest, error)
}
