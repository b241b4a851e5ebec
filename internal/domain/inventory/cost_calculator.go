package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedAverageCost promedio ponderado sobre los lotes abiertos, acumulado con CostCalculator.
// Sin lotes abiertos devuelve fallback.
func WeightedAverageCost(batches []entity.InventoryBatch, fallback decimal.Decimal) decimal.Decimal {
	qty, cost := decimal.Zero, decimal.Zero
	for _, b := range batches {
		if !b.Quantity.IsPositive() {
			continue
		}
		cost = CostCalculator(qty, cost, b.Quantity, b.UnitCost)
		qty = qty.Add(b.Quantity)
	}
	if qty.IsZero() {
		return fallback
	}
	return cost
}

// AllocationCost costo total y costo unitario promedio de un conjunto de asignaciones.
func AllocationCost(allocs []entity.BatchAllocation) (total, unit decimal.Decimal) {
	qty := decimal.Zero
	total = decimal.Zero
	for _, a := range allocs {
		qty = qty.Add(a.Quantity)
		total = total.Add(a.Quantity.Mul(a.UnitCost))
	}
	if qty.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	return total, total.Div(qty)
}
