package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestGetInventory_SinMovimientosEsCero(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.query.GetInventory(f.ctx, productWire, whB)
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
	assert.Equal(t, "m", out.BaseUOM)
	assert.Nil(t, out.UpdatedAt)

	_, err = f.query.GetInventory(f.ctx, productWire, "wh-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.GetInventory(f.ctx, "", whA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListStock_PorBodegaYPorProducto(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "1")
	f.receive(t, productWire, whA, "3", "", "1")
	f.receive(t, productBolt, whB, "2", "", "1")

	byWarehouse, err := f.query.ListStock(f.ctx, "", whA)
	require.NoError(t, err)
	require.Len(t, byWarehouse.Items, 2)
	assert.Equal(t, productBolt, byWarehouse.Items[0].ProductID)
	assertQty(t, "10", byWarehouse.Items[0].Quantity)
	assert.Equal(t, "und", byWarehouse.Items[0].BaseUOM)
	assert.Equal(t, productWire, byWarehouse.Items[1].ProductID)
	assert.Equal(t, "m", byWarehouse.Items[1].BaseUOM)

	byProduct, err := f.query.ListStock(f.ctx, productBolt, "")
	require.NoError(t, err)
	require.Len(t, byProduct.Items, 2)
	assert.Equal(t, whA, byProduct.Items[0].WarehouseID)
	assert.Equal(t, whB, byProduct.Items[1].WarehouseID)
	assertQty(t, "2", byProduct.Items[1].Quantity)

	empty, err := f.query.ListStock(f.ctx, productWire, "")
	require.NoError(t, err)
	require.Len(t, empty.Items, 1)

	_, err = f.query.ListStock(f.ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.ListStock(f.ctx, productBolt, whA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.ListStock(f.ctx, "", "wh-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.ListStock(f.ctx, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_Filtros(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "1")
	f.receive(t, productWire, whA, "3", "", "1")
	_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)

	sales := f.journal(t, dto.MovementFilters{Kind: string(entity.MovementKindSale)})
	require.Len(t, sales, 1)
	assertQty(t, "-4", sales[0].SignedQuantity)

	assert.Len(t, f.journal(t, dto.MovementFilters{WarehouseID: whA}), 3)
	assert.Len(t, f.journal(t, dto.MovementFilters{ProductID: productWire}), 1)

	later := fixedNow.Add(time.Hour)
	assert.Empty(t, f.journal(t, dto.MovementFilters{From: &later}))

	page, err := f.query.ListMovements(f.ctx, dto.MovementFilters{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.query.ListMovements(f.ctx, dto.MovementFilters{Kind: "TELEPORT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_SugierePedido(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "4")

	items, err := f.lowStock.LowStock(f.ctx, whA)
	require.NoError(t, err)
	require.Len(t, items, 1, "el cable no tiene mínimo configurado")
	got := items[0]
	assert.Equal(t, productBolt, got.ProductID)
	assertQty(t, "10", got.CurrentStock)
	assertQty(t, "30", got.IdealStock)
	assertQty(t, "20", got.SuggestedOrderQty)
	assertQty(t, "80", got.EstimatedCost)
	assert.Equal(t, 1, got.Priority)

	f.receive(t, productBolt, whA, "10", "", "4")
	items, err = f.lowStock.LowStock(f.ctx, whA)
	require.NoError(t, err)
	assert.Empty(t, items, "en el mínimo ya no se sugiere")

	_, err = f.lowStock.LowStock(f.ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
