package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestReceive_ConvierteUnidadYCosto(t *testing.T) {
	f := newFixture(t, nil)

	// 2 cajas a 120 la caja → 24 und a 10 c/u
	mov := f.receive(t, productBolt, whA, "2", "caja", "120")

	assert.Equal(t, string(entity.MovementKindPurchase), mov.Kind)
	assertQty(t, "24", mov.Quantity)
	assertQty(t, "12", mov.ConversionFactor)
	assertQty(t, "10", mov.UnitCost)
	assertQty(t, "240", mov.TotalCost)
	assertQty(t, "24", mov.BalanceAfter)
	assert.Equal(t, "caja", mov.UOM)
	assertQty(t, "24", f.stock(t, productBolt, whA))

	batches, err := f.query.ListBatches(f.ctx, productBolt, whA, false)
	require.NoError(t, err)
	require.Len(t, batches, 1, "toda entrada crea un lote")
	assertQty(t, "24", batches[0].Quantity)
	assertQty(t, "10", batches[0].UnitCost)
}

func TestIssue_ConsumeLotesFIFO(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")
	f.receive(t, productBolt, whA, "10", "", "7")

	mov, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.MovementKindSale), mov.Kind)
	assertQty(t, "-15", mov.SignedQuantity)
	assertQty(t, "5", mov.BalanceAfter)
	// 10×5 + 5×7 = 85 → 85/15
	assertQty(t, "85", mov.TotalCost.Round(8))

	open, err := f.query.ListBatches(f.ctx, productBolt, whA, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assertQty(t, "5", open[0].Quantity)
	assertQty(t, "7", open[0].UnitCost)

	all, err := f.query.ListBatches(f.ctx, productBolt, whA, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIssue_SaldoEqualsJournal(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productWire, whA, "12.5", "", "2")
	_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productWire, WarehouseID: whA, Quantity: decimal.RequireFromString("3.25"), Kind: "out",
	})
	require.NoError(t, err)
	f.receive(t, productWire, whA, "0.75", "", "2")

	assertQty(t, "10", f.stock(t, productWire, whA))
	assertQty(t, "10", f.journalSum(t, productWire, whA))

	movs := f.journal(t, dto.MovementFilters{ProductID: productWire, WarehouseID: whA})
	require.Len(t, movs, 3)
	assertQty(t, "10", movs[2].BalanceAfter)
	assert.Equal(t, string(entity.MovementKindOUT), movs[1].Kind)
}

func TestIssue_StockInsuficienteNoEscribe(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")

	_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.RequireFromString("5.0001"),
	})
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertQty(t, "5", stockErr.Available)
	assertQty(t, "5.0001", stockErr.Requested)
	assertQty(t, "0.0001", stockErr.Shortfall)

	assertQty(t, "5", f.stock(t, productBolt, whA))
	assert.Len(t, f.journal(t, dto.MovementFilters{ProductID: productBolt}), 1)
}

func TestIssue_SaldoExactoLlegaACero(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")

	mov, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, mov.BalanceAfter.IsZero())
	assert.True(t, f.stock(t, productBolt, whA).IsZero())
}

func TestIssue_Validaciones(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{ProductID: productBolt, WarehouseID: whA, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.Issue(f.ctx, testUser, dto.IssueRequest{ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(1), Kind: "PURCHASE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.Issue(f.ctx, testUser, dto.IssueRequest{ProductID: "no-existe", WarehouseID: whA, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.movements.Issue(f.ctx, testUser, dto.IssueRequest{ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(1), UOM: "pallet"})
	assert.ErrorIs(t, err, domain.ErrConversionNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos negativos permitidos: los lotes siguen cuadrando con max(saldo, 0)
// ──────────────────────────────────────────────────────────────────────────────

func TestSaldoNegativo_EntradaCubrePrimeroElDeficit(t *testing.T) {
	f := newNegativeStockFixture(t)

	mov, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assertQty(t, "-10", mov.BalanceAfter)
	assertQty(t, "4", mov.UnitCost) // sin lotes: costo del producto
	assertQty(t, "0", f.openLots(t, productBolt, whA))

	f.receive(t, productBolt, whA, "10", "", "5")
	assertQty(t, "0", f.stock(t, productBolt, whA))
	assertQty(t, "0", f.openLots(t, productBolt, whA)) // la entrada solo salda el déficit

	f.receive(t, productBolt, whA, "4", "", "6")
	assertQty(t, "4", f.stock(t, productBolt, whA))
	assertQty(t, "4", f.openLots(t, productBolt, whA))

	mov, err = f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assertQty(t, "6", mov.UnitCost)
	assertQty(t, "0", f.journalSum(t, productBolt, whA))
}

func TestSaldoNegativo_EntradaParcialCreaLotePorElExcedente(t *testing.T) {
	f := newNegativeStockFixture(t)
	f.receive(t, productBolt, whA, "3", "", "5")

	mov, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whA, Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	// 3×5 del lote + 2×4 al costo del producto = 23
	assertQty(t, "23", mov.TotalCost.Round(8))
	assertQty(t, "-2", f.stock(t, productBolt, whA))

	f.receive(t, productBolt, whA, "6", "", "8")
	assertQty(t, "4", f.stock(t, productBolt, whA))
	lots, err := f.query.ListBatches(f.ctx, productBolt, whA, false)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assertQty(t, "4", lots[0].Quantity)
	assertQty(t, "6", lots[0].InitialQuantity)
	assertQty(t, "8", lots[0].UnitCost)
}

func TestSaldoNegativo_TrasladoSaldaDeficitEnDestino(t *testing.T) {
	f := newNegativeStockFixture(t)
	_, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
		ProductID: productBolt, WarehouseID: whB, Quantity: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	f.receive(t, productBolt, whA, "10", "", "5")
	f.receive(t, productBolt, whA, "10", "", "7")

	tr, err := f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID:      whA,
		DestinationWarehouseID: whB,
		Items:                  []dto.TransferItemRequest{{ProductID: productBolt, Quantity: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)
	_, err = f.transfers.Post(f.ctx, tr.ID, testUser)
	require.NoError(t, err)

	assertQty(t, "12", f.stock(t, productBolt, whB))
	assertQty(t, "12", f.openLots(t, productBolt, whB))
	lots, err := f.query.ListBatches(f.ctx, productBolt, whB, false)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	// El déficit de 3 se salda con la porción más antigua (10@5)
	assertQty(t, "7", lots[0].Quantity)
	assertQty(t, "5", lots[0].UnitCost)
	assertQty(t, "5", lots[1].Quantity)
	assertQty(t, "7", lots[1].UnitCost)

	assertQty(t, "5", f.stock(t, productBolt, whA))
	assertQty(t, "5", f.openLots(t, productBolt, whA))
}
