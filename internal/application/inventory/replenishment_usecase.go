package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de productos bajo su stock mínimo para una bodega.
type ReplenishmentUseCase struct {
	levelRepo repository.InventoryLevelRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(levelRepo repository.InventoryLevelRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{levelRepo: levelRepo}
}

// LowStock devuelve los productos con saldo menor a MinStockLevel con la cantidad sugerida
// de pedido (ideal = mínimo × 1.5), ordenados por mayor déficit.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, warehouseID string) ([]dto.LowStockDTO, error) {
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	rawItems, err := uc.levelRepo.GetProductsBelowMinimum(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	factor := decimal.NewFromFloat(1.5)
	out := make([]dto.LowStockDTO, 0, len(rawItems))
	for _, item := range rawItems {
		ideal := item.MinStockLevel.Mul(factor)
		suggested := ideal.Sub(item.CurrentStock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, dto.LowStockDTO{
			ProductID:         item.ProductID,
			SKU:               item.SKU,
			ProductName:       item.ProductName,
			WarehouseID:       item.WarehouseID,
			CurrentStock:      item.CurrentStock,
			MinStockLevel:     item.MinStockLevel,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			UnitCost:          item.UnitCost,
			EstimatedCost:     suggested.Mul(item.UnitCost),
		})
	}

	// Mayor déficit primero; en empate, SKU
	sort.SliceStable(out, func(i, j int) bool {
		defA := out[i].MinStockLevel.Sub(out[i].CurrentStock)
		defB := out[j].MinStockLevel.Sub(out[j].CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return out[i].SKU < out[j].SKU
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
