package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SortOldestFirst ordena lotes por CreatedAt y, en empate, por orden de inserción (Seq).
func SortOldestFirst(batches []entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Seq < b.Seq
	})
}

// AllocateFIFO reparte quantity sobre los lotes (ya ordenados del más antiguo al más nuevo).
// Devuelve las asignaciones y lo que quedó sin cubrir. No modifica los lotes.
// Los lotes agotados se ignoran.
func AllocateFIFO(batches []entity.InventoryBatch, quantity decimal.Decimal) ([]entity.BatchAllocation, decimal.Decimal) {
	remaining := quantity
	var allocs []entity.BatchAllocation
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		if !b.Quantity.IsPositive() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		allocs = append(allocs, entity.BatchAllocation{
			BatchID:  b.ID,
			Quantity: take,
			UnitCost: b.UnitCost,
		})
		remaining = remaining.Sub(take)
	}
	return allocs, remaining
}

// AvailableQuantity suma el remanente de los lotes.
func AvailableQuantity(batches []entity.InventoryBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.Quantity.IsPositive() {
			total = total.Add(b.Quantity)
		}
	}
	return total
}
