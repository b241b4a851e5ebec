package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock saldo materializado de un producto en una bodega, en unidad base.
// Invariante: Quantity == suma con signo de los movimientos del diario para el par.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
