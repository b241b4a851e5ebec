package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// DocumentFilter filtros comunes para listar ajustes y traslados.
type DocumentFilter struct {
	Status      string
	WarehouseID string
	BranchID    string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InventoryAdjustmentRepository define el puerto de persistencia de ajustes (cabecera + líneas).
type InventoryAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.InventoryAdjustment) error
	// Update guarda la cabecera y reemplaza las líneas.
	Update(ctx context.Context, adjustment *entity.InventoryAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.InventoryAdjustment, error)
	// GetForUpdate bloquea la cabecera del documento hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryAdjustment, error)
	// List ordena por fecha de creación ascendente; Limit 0 no limita.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.InventoryAdjustment, error)
}
