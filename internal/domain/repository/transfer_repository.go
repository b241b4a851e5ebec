package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryTransferRepository define el puerto de persistencia de traslados (cabecera + líneas).
// En DocumentFilter, WarehouseID coincide con origen o destino.
type InventoryTransferRepository interface {
	Create(ctx context.Context, transfer *entity.InventoryTransfer) error
	Update(ctx context.Context, transfer *entity.InventoryTransfer) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.InventoryTransfer, error)
}
