package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros de consulta del diario. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Kind        entity.MovementKind
	ReferenceID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
// El diario es append-only: no hay Update ni Delete.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// List ordena por fecha de creación ascendente.
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
}
