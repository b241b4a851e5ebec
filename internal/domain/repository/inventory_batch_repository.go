package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryBatchRepository define el puerto de persistencia de lotes de costo.
type InventoryBatchRepository interface {
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	// ListOpenForUpdate lotes con remanente > 0, del más antiguo al más nuevo, bloqueados.
	ListOpenForUpdate(ctx context.Context, productID, warehouseID string) ([]entity.InventoryBatch, error)
	UpdateQuantity(ctx context.Context, batchID string, quantity decimal.Decimal) error
	List(ctx context.Context, productID, warehouseID string, includeExhausted bool) ([]entity.InventoryBatch, error)
}
