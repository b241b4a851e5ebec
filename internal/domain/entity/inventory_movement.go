package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del diario. El signo de cada tipo es fijo (ver Sign).
type MovementKind string

// Tipos de movimiento de inventario.
const (
	MovementKindIN            MovementKind = "IN"             // entrada genérica
	MovementKindOUT           MovementKind = "OUT"            // salida genérica
	MovementKindPurchase      MovementKind = "PURCHASE"       // recepción de compra
	MovementKindSale          MovementKind = "SALE"           // venta (POS)
	MovementKindReturnIn      MovementKind = "RETURN_IN"      // devolución de cliente
	MovementKindAdjustmentIN  MovementKind = "ADJUSTMENT_IN"  // ajuste positivo
	MovementKindAdjustmentOUT MovementKind = "ADJUSTMENT_OUT" // ajuste negativo
	MovementKindTransferIN    MovementKind = "TRANSFER_IN"    // traslado, bodega destino
	MovementKindTransferOUT   MovementKind = "TRANSFER_OUT"   // traslado, bodega origen
)

// movementSigns tabla única de signos: +1 suma al saldo, -1 resta.
var movementSigns = map[MovementKind]int{
	MovementKindIN:            1,
	MovementKindPurchase:      1,
	MovementKindReturnIn:      1,
	MovementKindAdjustmentIN:  1,
	MovementKindTransferIN:    1,
	MovementKindOUT:           -1,
	MovementKindSale:          -1,
	MovementKindAdjustmentOUT: -1,
	MovementKindTransferOUT:   -1,
}

// Sign devuelve +1, -1 o 0 si el tipo no existe.
func (k MovementKind) Sign() int {
	return movementSigns[k]
}

// Valid indica si el tipo pertenece a la tabla de signos.
func (k MovementKind) Valid() bool {
	_, ok := movementSigns[k]
	return ok
}

// IsInbound indica si el tipo suma al saldo.
func (k MovementKind) IsInbound() bool {
	return k.Sign() > 0
}

// Signed aplica el signo del tipo a una magnitud.
func (k MovementKind) Signed(quantity decimal.Decimal) decimal.Decimal {
	if k.Sign() < 0 {
		return quantity.Neg()
	}
	return quantity
}

// Tipos de referencia hacia el documento origen.
const (
	ReferenceTypeAdjustment = "INVENTORY_ADJUSTMENT"
	ReferenceTypeTransfer   = "INVENTORY_TRANSFER"
	ReferenceTypeReceipt    = "RECEIPT"
	ReferenceTypeSale       = "SALE"
)

// InventoryMovement entrada del diario (append-only, nunca se modifica ni se borra).
// Quantity es la magnitud en unidad base; el signo lo da Kind.
// UOM y ConversionFactor son los usados al registrar, para que el historial se
// explique solo aunque la tabla de conversiones cambie después.
type InventoryMovement struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Kind             MovementKind
	Quantity         decimal.Decimal
	UOM              string
	ConversionFactor decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
	BalanceAfter     decimal.Decimal
	ReferenceID      string
	ReferenceType    string
	Reason           string
	CreatedAt        time.Time
	CreatedBy        string
}

// SignedQuantity cantidad con signo según Kind.
func (m *InventoryMovement) SignedQuantity() decimal.Decimal {
	return m.Kind.Signed(m.Quantity)
}
