package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// LowStockItem resultado crudo del repositorio para un producto bajo su mínimo.
type LowStockItem struct {
	ProductID     string
	SKU           string
	ProductName   string
	WarehouseID   string
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	UnitCost      decimal.Decimal
}

// InventoryLevelRepository consultas de lectura sobre saldos cruzados con el catálogo.
type InventoryLevelRepository interface {
	// GetProductsBelowMinimum productos cuyo saldo en la bodega es menor a su MinStockLevel,
	// mayor déficit primero. Productos sin fila de saldo cuentan como cero.
	GetProductsBelowMinimum(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}
