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

func TestAdjustment_CreaBorradorConNumero(t *testing.T) {
	f := newFixture(t, nil)

	first := f.adjustment(t, whA, relative(productBolt, "1"))
	second := f.adjustment(t, whA, relative(productBolt, "1"))

	assert.Equal(t, entity.DocumentStatusDraft, first.Status)
	assert.Equal(t, "ADJ-20260115-0001", first.AdjustmentNumber)
	assert.Equal(t, "ADJ-20260115-0002", second.AdjustmentNumber)
	assert.Equal(t, branchID, first.BranchID, "la sucursal se toma de la bodega")
	require.Len(t, first.Items, 1)
	assert.Equal(t, "und", first.Items[0].UOM, "sin unidad se usa la base")
	assert.Nil(t, first.Items[0].SystemQuantity)
}

func TestAdjustment_ValidacionesDeLineas(t *testing.T) {
	f := newFixture(t, nil)
	create := func(items ...dto.AdjustmentItemRequest) error {
		_, err := f.adjustments.Create(f.ctx, testUser, dto.CreateAdjustmentRequest{WarehouseID: whA, Reason: "x", Items: items})
		return err
	}

	assert.ErrorIs(t, create(), domain.ErrInvalidInput, "sin líneas")
	assert.ErrorIs(t, create(relative(productBolt, "0")), domain.ErrInvalidInput, "relativo cero")
	assert.ErrorIs(t, create(absolute(productBolt, "-1")), domain.ErrInvalidInput, "absoluto negativo")
	assert.ErrorIs(t, create(relative(productBolt, "1"), absolute(productBolt, "3")), domain.ErrInvalidInput, "producto duplicado")
	assert.ErrorIs(t, create(dto.AdjustmentItemRequest{ProductID: productBolt, Quantity: decimal.NewFromInt(1), Type: "DELTA"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, create(dto.AdjustmentItemRequest{ProductID: productBolt, Quantity: decimal.NewFromInt(1), UOM: "pallet", Type: "RELATIVE"}), domain.ErrConversionNotFound)
	assert.ErrorIs(t, create(relative("no-existe", "1")), domain.ErrNotFound)

	_, err := f.adjustments.Create(f.ctx, testUser, dto.CreateAdjustmentRequest{WarehouseID: whA, Reason: "  ", Items: []dto.AdjustmentItemRequest{relative(productBolt, "1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "motivo obligatorio")

	_, err = f.adjustments.Create(f.ctx, testUser, dto.CreateAdjustmentRequest{WarehouseID: "wh-x", Reason: "x", Items: []dto.AdjustmentItemRequest{relative(productBolt, "1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustment_PostAbsolutoYRelativo(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")
	f.receive(t, productWire, whA, "3", "", "2")

	adj := f.adjustment(t, whA, absolute(productBolt, "7"), relative(productWire, "2"))
	out, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)
	require.Nil(t, out.ApprovalRequest)

	posted := out.Adjustment
	assert.Equal(t, entity.DocumentStatusPosted, posted.Status)
	assert.Equal(t, testUser, posted.PostedByID)
	require.NotNil(t, posted.PostedAt)

	require.Len(t, posted.Items, 2)
	assertQty(t, "10", *posted.Items[0].SystemQuantity)
	assertQty(t, "7", *posted.Items[0].ActualQuantity)
	assertQty(t, "3", *posted.Items[1].SystemQuantity)
	assertQty(t, "5", *posted.Items[1].ActualQuantity)

	assertQty(t, "7", f.stock(t, productBolt, whA))
	assertQty(t, "5", f.stock(t, productWire, whA))

	movs := f.journal(t, dto.MovementFilters{ReferenceID: adj.ID})
	require.Len(t, movs, 2)
	assert.Equal(t, string(entity.MovementKindAdjustmentOUT), movs[0].Kind)
	assertQty(t, "3", movs[0].Quantity)
	assert.Equal(t, string(entity.MovementKindAdjustmentIN), movs[1].Kind)
	assertQty(t, "2", movs[1].Quantity)
	assertQty(t, "2", movs[1].UnitCost)
	for _, m := range movs {
		assert.Equal(t, entity.ReferenceTypeAdjustment, m.ReferenceType)
		assert.Equal(t, "Conteo cíclico", m.Reason)
	}

	assertQty(t, "7", f.journalSum(t, productBolt, whA))
	assertQty(t, "5", f.journalSum(t, productWire, whA))
}

func TestAdjustment_AbsolutoSinDiferenciaNoEscribeMovimiento(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")

	adj := f.adjustment(t, whA, absolute(productBolt, "10"))
	out, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusPosted, out.Adjustment.Status)
	assertQty(t, "10", *out.Adjustment.Items[0].SystemQuantity)
	assertQty(t, "10", *out.Adjustment.Items[0].ActualQuantity)
	assert.Empty(t, f.journal(t, dto.MovementFilters{ReferenceID: adj.ID}))
}

func TestAdjustment_ConteoAbsolutoEnCeroVaciaElSaldo(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "6", "", "5")

	// ABSOLUTE 0 es un conteo físico de cero, no una línea vacía
	adj := f.adjustment(t, whA, absolute(productBolt, "0"))
	out, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	assertQty(t, "6", *out.Adjustment.Items[0].SystemQuantity)
	assertQty(t, "0", *out.Adjustment.Items[0].ActualQuantity)
	movs := f.journal(t, dto.MovementFilters{ReferenceID: adj.ID})
	require.Len(t, movs, 1)
	assert.Equal(t, string(entity.MovementKindAdjustmentOUT), movs[0].Kind)
	assertQty(t, "6", movs[0].Quantity)
	assertQty(t, "0", f.stock(t, productBolt, whA))
	assertQty(t, "0", f.openLots(t, productBolt, whA))

	_, err = f.adjustments.Create(f.ctx, testUser, dto.CreateAdjustmentRequest{
		WarehouseID: whA, Reason: "x", Items: []dto.AdjustmentItemRequest{relative(productBolt, "0")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el relativo cero sí es una línea vacía")
}

func TestAdjustment_ConvierteUnidadAlterna(t *testing.T) {
	f := newFixture(t, nil)

	adj := f.adjustment(t, whA, dto.AdjustmentItemRequest{
		ProductID: productBolt, Quantity: decimal.NewFromInt(2), UOM: "caja", Type: entity.AdjustmentTypeAbsolute,
	})
	_, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	assertQty(t, "24", f.stock(t, productBolt, whA))
	movs := f.journal(t, dto.MovementFilters{ReferenceID: adj.ID})
	require.Len(t, movs, 1)
	assertQty(t, "12", movs[0].ConversionFactor)
	assert.Equal(t, "caja", movs[0].UOM)
	assertQty(t, "4", movs[0].UnitCost) // sin lotes se usa el costo del catálogo
}

func TestAdjustment_FalloDeUnaLineaRevierteTodo(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")
	f.receive(t, productWire, whA, "3", "", "2")

	adj := f.adjustment(t, whA, relative(productBolt, "-2"), relative(productWire, "-100"))
	_, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, productWire, stockErr.ProductID)
	assertQty(t, "97", stockErr.Shortfall)

	assertQty(t, "10", f.stock(t, productBolt, whA))
	assertQty(t, "3", f.stock(t, productWire, whA))
	assert.Empty(t, f.journal(t, dto.MovementFilters{ReferenceID: adj.ID}))

	got, err := f.adjustments.Get(f.ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, got.Status)
	assert.Nil(t, got.Items[0].SystemQuantity)

	batches, err := f.query.ListBatches(f.ctx, productBolt, whA, false)
	require.NoError(t, err)
	assertQty(t, "10", batches[0].Quantity)
}

func TestAdjustment_PostearDosVecesEsEstadoInvalido(t *testing.T) {
	f := newFixture(t, nil)
	adj := f.adjustment(t, whA, relative(productBolt, "5"))

	_, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)
	_, err = f.adjustments.Post(f.ctx, adj.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assertQty(t, "5", f.stock(t, productBolt, whA))
	assert.Len(t, f.journal(t, dto.MovementFilters{ReferenceID: adj.ID}), 1)

	reason := "otro"
	_, err = f.adjustments.Update(f.ctx, adj.ID, testUser, dto.UpdateAdjustmentRequest{Reason: &reason})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un ajuste posteado no se edita")
}

func TestAdjustment_UpdateReemplazaLineas(t *testing.T) {
	f := newFixture(t, nil)
	adj := f.adjustment(t, whA, relative(productBolt, "5"))

	reason := "Recuento"
	out, err := f.adjustments.Update(f.ctx, adj.ID, testUser, dto.UpdateAdjustmentRequest{
		Reason: &reason,
		Items:  []dto.AdjustmentItemRequest{relative(productWire, "3")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Recuento", out.Reason)
	require.Len(t, out.Items, 1)
	assert.Equal(t, productWire, out.Items[0].ProductID)

	keep, err := f.adjustments.Update(f.ctx, adj.ID, testUser, dto.UpdateAdjustmentRequest{})
	require.NoError(t, err)
	assert.Len(t, keep.Items, 1, "items nil conserva las líneas")

	_, err = f.adjustments.Update(f.ctx, "no-existe", testUser, dto.UpdateAdjustmentRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustment_MassPostAcumulaFallos(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "5", "", "1")

	f.adjustment(t, whA, relative(productBolt, "2"))
	bad := f.adjustment(t, whA, relative(productWire, "-1"))
	f.adjustment(t, whB, absolute(productWire, "8"))

	out, err := f.adjustments.MassPostDrafts(f.ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 0, out.PendingApproval)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, bad.ID, out.Errors[0].AdjustmentID)

	assertQty(t, "7", f.stock(t, productBolt, whA))
	assertQty(t, "8", f.stock(t, productWire, whB))

	drafts, err := f.adjustments.List(f.ctx, dto.DocumentFilters{Status: entity.DocumentStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, bad.ID, drafts.Items[0].ID)
}

func TestAdjustment_CopiaYReversa(t *testing.T) {
	f := newFixture(t, nil)
	f.receive(t, productBolt, whA, "10", "", "5")

	adj := f.adjustment(t, whA, absolute(productBolt, "4"), relative(productWire, "6"))

	_, err := f.adjustments.Reverse(f.ctx, adj.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "solo se revierte un ajuste posteado")

	_, err = f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	copied, err := f.adjustments.Copy(f.ctx, adj.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, copied.Status)
	assert.NotEqual(t, adj.AdjustmentNumber, copied.AdjustmentNumber)
	require.Len(t, copied.Items, 2)
	assert.Equal(t, entity.AdjustmentTypeAbsolute, copied.Items[0].Type)
	assertQty(t, "4", copied.Items[0].Quantity)

	rev, err := f.adjustments.Reverse(f.ctx, adj.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, adj.AdjustmentNumber, rev.ReferenceNumber)
	require.Len(t, rev.Items, 2)
	for _, it := range rev.Items {
		assert.Equal(t, entity.AdjustmentTypeRelative, it.Type)
	}
	assertQty(t, "6", rev.Items[0].Quantity)
	assertQty(t, "-6", rev.Items[1].Quantity)

	_, err = f.adjustments.Post(f.ctx, rev.ID, testUser)
	require.NoError(t, err)
	assertQty(t, "10", f.stock(t, productBolt, whA))
	assert.True(t, f.stock(t, productWire, whA).IsZero())
}

func TestAdjustment_RegistraAuditoria(t *testing.T) {
	f := newFixture(t, nil)
	adj := f.adjustment(t, whA, relative(productBolt, "1"))
	_, err := f.adjustments.Post(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	logs, err := f.store.AuditLogs().ListByResource(f.ctx, entity.ReferenceTypeAdjustment, adj.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "CREATE", logs[0].Action)
	assert.Equal(t, "POST", logs[1].Action)
}
