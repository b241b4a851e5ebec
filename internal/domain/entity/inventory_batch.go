package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch lote de costo creado en cada entrada. Se consume del más antiguo al más nuevo.
// Un lote agotado (Quantity = 0) queda como historial y no se vuelve a asignar. Nunca se fusiona.
type InventoryBatch struct {
	ID              string
	ProductID       string
	WarehouseID     string
	InitialQuantity decimal.Decimal
	Quantity        decimal.Decimal // remanente en unidad base
	UnitCost        decimal.Decimal
	ReferenceID     string
	ReferenceType   string
	CreatedAt       time.Time
	Seq             int64 // orden de inserción; desempata lotes con el mismo CreatedAt
}

// BatchAllocation porción de un lote tomada por una salida.
type BatchAllocation struct {
	BatchID  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}
