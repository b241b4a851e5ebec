package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func lots() []entity.InventoryBatch {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return []entity.InventoryBatch{
		{ID: "b-3", Quantity: dec("10"), UnitCost: dec("7"), CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "b-1", Quantity: dec("5"), UnitCost: dec("5"), CreatedAt: t0},
		{ID: "b-2", Quantity: dec("0"), UnitCost: dec("6"), CreatedAt: t0.Add(time.Hour)},
	}
}

func TestSortOldestFirst(t *testing.T) {
	b := lots()
	inventory.SortOldestFirst(b)
	assert.Equal(t, "b-1", b[0].ID)
	assert.Equal(t, "b-2", b[1].ID)
	assert.Equal(t, "b-3", b[2].ID)
}

func TestSortOldestFirst_EmpateUsaSeq(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	b := []entity.InventoryBatch{
		{ID: "a-ultimo", Seq: 9, Quantity: dec("1"), CreatedAt: t0},
		{ID: "z-primero", Seq: 4, Quantity: dec("1"), CreatedAt: t0},
	}
	inventory.SortOldestFirst(b)
	assert.Equal(t, "z-primero", b[0].ID, "con el mismo CreatedAt gana el menor Seq, no el ID")
}

func TestAllocateFIFO_ConsumeDelMasAntiguo(t *testing.T) {
	b := lots()
	inventory.SortOldestFirst(b)

	allocs, remaining := inventory.AllocateFIFO(b, dec("8"))
	require.Len(t, allocs, 2, "el lote agotado no debe asignarse")
	assert.Equal(t, "b-1", allocs[0].BatchID)
	assertDecimal(t, "5", allocs[0].Quantity)
	assert.Equal(t, "b-3", allocs[1].BatchID)
	assertDecimal(t, "3", allocs[1].Quantity)
	assertDecimal(t, "0", remaining)

	sum := allocs[0].Quantity.Add(allocs[1].Quantity)
	assertDecimal(t, "8", sum, "la suma de asignaciones debe igualar lo solicitado")
	assertDecimal(t, "5", b[0].Quantity, "AllocateFIFO no modifica los lotes")
}

func TestAllocateFIFO_Faltante(t *testing.T) {
	b := lots()
	inventory.SortOldestFirst(b)
	_, remaining := inventory.AllocateFIFO(b, dec("15.0001"))
	assertDecimal(t, "0.0001", remaining)
	assertDecimal(t, "15", inventory.AvailableQuantity(b))
}

func TestWeightedAverageCost(t *testing.T) {
	// (5*5 + 10*7) / 15 = 6.3333...
	avg := inventory.WeightedAverageCost(lots(), dec("99"))
	assert.True(t, avg.Sub(dec("6.333333333")).Abs().LessThan(dec("0.000001")), "promedio %s", avg)

	assertDecimal(t, "99", inventory.WeightedAverageCost(nil, dec("99")), "sin lotes usa el costo de respaldo")
}

func TestAllocationCost(t *testing.T) {
	total, unit := inventory.AllocationCost([]entity.BatchAllocation{
		{BatchID: "a", Quantity: dec("2"), UnitCost: dec("5")},
		{BatchID: "b", Quantity: dec("2"), UnitCost: dec("7")},
	})
	assertDecimal(t, "24", total)
	assertDecimal(t, "6", unit)
}

func TestCostCalculator(t *testing.T) {
	assertDecimal(t, "6", inventory.CostCalculator(dec("10"), dec("5"), dec("10"), dec("7")))
	assertDecimal(t, "0", inventory.CostCalculator(dec("0"), dec("5"), dec("0"), dec("7")))
}
