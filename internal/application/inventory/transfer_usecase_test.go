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

func (f *fixture) transfer(t *testing.T, items ...dto.TransferItemRequest) *dto.TransferResponse {
	t.Helper()
	out, err := f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID:      whA,
		DestinationWarehouseID: whB,
		Items:                  items,
	})
	require.NoError(t, err)
	return out
}

func line(productID, qty, uom string) dto.TransferItemRequest {
	return dto.TransferItemRequest{ProductID: productID, Quantity: decimal.RequireFromString(qty), UOM: uom}
}

func TestTransfer_PostEscribeDosPiernasConMismaReferencia(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "2", "caja", "120") // 24 und a 10

	tr := f.transfer(t, line(productBolt, "1", "caja"))
	assert.Equal(t, "TRF-20260115-0001", tr.TransferNumber)
	assert.Equal(t, entity.DocumentStatusDraft, tr.Status)

	out, err := f.transfers.Post(f.ctx, tr.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusPosted, out.Transfer.Status)

	assertQty(t, "12", f.stock(t, productBolt, whA))
	assertQty(t, "12", f.stock(t, productBolt, whB))

	movs := f.journal(t, dto.MovementFilters{ReferenceID: tr.ID})
	require.Len(t, movs, 2)
	assert.Equal(t, string(entity.MovementKindTransferOUT), movs[0].Kind)
	assert.Equal(t, whA, movs[0].WarehouseID)
	assert.Equal(t, string(entity.MovementKindTransferIN), movs[1].Kind)
	assert.Equal(t, whB, movs[1].WarehouseID)
	for _, m := range movs {
		assert.Equal(t, tr.ID, m.ReferenceID)
		assert.Equal(t, entity.ReferenceTypeTransfer, m.ReferenceType)
		assertQty(t, "12", m.Quantity)
		assertQty(t, "10", m.UnitCost)
	}

	dest, err := f.query.ListBatches(f.ctx, productBolt, whB, false)
	require.NoError(t, err)
	require.Len(t, dest, 1)
	assertQty(t, "12", dest[0].Quantity)
	assertQty(t, "10", dest[0].UnitCost)

	assertQty(t, "12", f.journalSum(t, productBolt, whA))
	assertQty(t, "12", f.journalSum(t, productBolt, whB))
}

func TestTransfer_StockInsuficienteNoMueveNada(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")
	f.receive(t, productWire, whA, "1", "", "1")

	tr := f.transfer(t, line(productBolt, "5", ""), line(productWire, "1.5", ""))
	_, err := f.transfers.Post(f.ctx, tr.ID, testUser)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, whA, stockErr.WarehouseID)
	assertQty(t, "0.5", stockErr.Shortfall)

	assertQty(t, "5", f.stock(t, productBolt, whA))
	assert.True(t, f.stock(t, productBolt, whB).IsZero())
	assert.Empty(t, f.journal(t, dto.MovementFilters{ReferenceID: tr.ID}))

	got, err := f.transfers.Get(f.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, got.Status)
}

func TestTransfer_Validaciones(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID: whA, DestinationWarehouseID: whA, Items: []dto.TransferItemRequest{line(productBolt, "1", "")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino iguales")

	_, err = f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID: whA, DestinationWarehouseID: "wh-x", Items: []dto.TransferItemRequest{line(productBolt, "1", "")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID: whA, DestinationWarehouseID: whB, Items: []dto.TransferItemRequest{line(productBolt, "0", "")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID: whA, DestinationWarehouseID: whB,
		Items: []dto.TransferItemRequest{line(productBolt, "1", ""), line(productBolt, "2", "")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto duplicado")
}

func TestTransfer_CancelarEsTerminal(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")
	tr := f.transfer(t, line(productBolt, "2", ""))

	out, err := f.transfers.Cancel(f.ctx, tr.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusCancelled, out.Status)
	assert.NotNil(t, out.CancelledAt)

	_, err = f.transfers.Post(f.ctx, tr.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.transfers.Cancel(f.ctx, tr.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assertQty(t, "5", f.stock(t, productBolt, whA))
}

func TestTransfer_PosteadoNoSeCancelaNiEdita(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")
	tr := f.transfer(t, line(productBolt, "2", ""))
	_, err := f.transfers.Post(f.ctx, tr.ID, testUser)
	require.NoError(t, err)

	_, err = f.transfers.Cancel(f.ctx, tr.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.transfers.Post(f.ctx, tr.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	reason := "x"
	_, err = f.transfers.Update(f.ctx, tr.ID, testUser, dto.UpdateTransferRequest{Reason: &reason})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.Len(t, f.journal(t, dto.MovementFilters{ReferenceID: tr.ID}), 2)
}

func TestTransfer_ListaPorBodegaOrigenODestino(t *testing.T) {
	f := newFixture(t, nil)
	f.transfer(t, line(productBolt, "1", ""))
	_, err := f.transfers.Create(f.ctx, testUser, dto.CreateTransferRequest{
		SourceWarehouseID: whB, DestinationWarehouseID: whA, Items: []dto.TransferItemRequest{line(productWire, "1", "")},
	})
	require.NoError(t, err)

	out, err := f.transfers.List(f.ctx, dto.DocumentFilters{WarehouseID: whB})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = f.transfers.List(f.ctx, dto.DocumentFilters{Status: entity.DocumentStatusPosted})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestTransfer_LotesDestinoConservanOrdenFIFO(t *testing.T) {
	// Los lotes destino comparten CreatedAt; el orden lo fija la inserción.
	for i := 0; i < 20; i++ {
		f := newFixture(t, nil)
		f.receive(t, productBolt, whA, "10", "", "5")
		f.receive(t, productBolt, whA, "10", "", "7")

		tr := f.transfer(t, line(productBolt, "15", ""))
		_, err := f.transfers.Post(f.ctx, tr.ID, testUser)
		require.NoError(t, err)

		dest, err := f.query.ListBatches(f.ctx, productBolt, whB, false)
		require.NoError(t, err)
		require.Len(t, dest, 2, "un lote destino por lote consumido")
		assertQty(t, "5", dest[0].UnitCost)
		assertQty(t, "7", dest[1].UnitCost)

		mov, err := f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
			ProductID: productBolt, WarehouseID: whB, Quantity: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assertQty(t, "5", mov.UnitCost)

		mov, err = f.movements.Issue(f.ctx, testUser, dto.IssueRequest{
			ProductID: productBolt, WarehouseID: whB, Quantity: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		// 5×5 + 5×7 = 60
		assertQty(t, "60", mov.TotalCost.Round(8))
	}
}
