package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementInput entrada para aplicar un movimiento al diario.
// Quantity es la magnitud en unidad base (>= 0); el signo lo decide Kind.
// UOM y Factor son los usados al convertir la cantidad ingresada.
type MovementInput struct {
	ProductID     string
	WarehouseID   string
	Kind          entity.MovementKind
	Quantity      decimal.Decimal
	UOM           string
	Factor        decimal.Decimal
	UnitCost      decimal.Decimal
	ReferenceID   string
	ReferenceType string
	Reason        string
	UserID        string
	At            time.Time
}

// Ledger único punto que escribe saldos (stock) y el diario (inventory_movements).
// Siempre opera con los repositorios de la transacción del llamador.
type Ledger struct {
	allowNegativeStock bool
}

// NewLedger construye el ledger. allowNegativeStock permite saldos bajo cero.
func NewLedger(allowNegativeStock bool) *Ledger {
	return &Ledger{allowNegativeStock: allowNegativeStock}
}

// AllowsNegativeStock indica la política de saldos negativos.
func (l *Ledger) AllowsNegativeStock() bool { return l.allowNegativeStock }

// ApplyMovement bloquea el saldo (producto, bodega), aplica el delta con signo, guarda el saldo
// y agrega exactamente una entrada al diario con el saldo resultante.
func (l *Ledger) ApplyMovement(ctx context.Context, repos TxRepos, in MovementInput) (*entity.InventoryMovement, error) {
	if !in.Kind.Valid() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("tipo de movimiento desconocido %q", in.Kind))
	}
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.WarehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	if in.Quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "la magnitud del movimiento no puede ser negativa")
	}
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	factor := in.Factor
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}

	// Bloquea la fila en stock (SELECT FOR UPDATE) para evitar condiciones de carrera
	stock, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	newQty := stock.Quantity.Add(in.Kind.Signed(in.Quantity))
	if newQty.IsNegative() && !l.allowNegativeStock {
		return nil, domain.NewInsufficientStockError(in.ProductID, in.WarehouseID, stock.Quantity, in.Quantity)
	}
	stock.Quantity = newQty
	stock.UpdatedAt = at
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		Kind:             in.Kind,
		Quantity:         in.Quantity,
		UOM:              in.UOM,
		ConversionFactor: factor,
		UnitCost:         in.UnitCost,
		TotalCost:        in.Quantity.Mul(in.UnitCost),
		BalanceAfter:     newQty,
		ReferenceID:      in.ReferenceID,
		ReferenceType:    in.ReferenceType,
		Reason:           in.Reason,
		CreatedAt:        at,
		CreatedBy:        in.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// EnsureAvailable falla con InsufficientStockError si el saldo bloqueado no cubre quantity
// (solo cuando no se permiten saldos negativos). Devuelve el saldo actual.
func (l *Ledger) EnsureAvailable(ctx context.Context, repos TxRepos, productID, warehouseID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	stock, err := repos.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if !l.allowNegativeStock && stock.Quantity.LessThan(quantity) {
		return stock.Quantity, domain.NewInsufficientStockError(productID, warehouseID, stock.Quantity, quantity)
	}
	return stock.Quantity, nil
}
