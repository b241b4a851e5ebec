package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestMarotoSlipGenerator_AdjustmentSlip(t *testing.T) {
	sys, act := decimal.NewFromInt(100), decimal.NewFromInt(95)
	adj := &entity.InventoryAdjustment{
		AdjustmentNumber: "ADJ-20260101-0001",
		WarehouseID:      "wh-1",
		Status:           entity.DocumentStatusPosted,
		Reason:           "Conteo cíclico",
		AdjustmentDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Items: []entity.InventoryAdjustmentItem{
			{ProductID: "p1", Quantity: decimal.NewFromInt(95), UOM: "piece", Type: entity.AdjustmentTypeAbsolute,
				SystemQuantity: &sys, ActualQuantity: &act},
			{ProductID: "p2", Quantity: decimal.NewFromInt(-2), UOM: "box", Type: entity.AdjustmentTypeRelative},
		},
	}
	products := map[string]*entity.Product{"p1": {ID: "p1", SKU: "W-1", Name: "Widget"}}

	out, err := NewMarotoSlipGenerator().AdjustmentSlip(adj, products)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoSlipGenerator_TransferSlip(t *testing.T) {
	tr := &entity.InventoryTransfer{
		TransferNumber:         "TRF-20260101-0001",
		SourceWarehouseID:      "A",
		DestinationWarehouseID: "B",
		Status:                 entity.DocumentStatusDraft,
		TransferDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Items:                  []entity.InventoryTransferItem{{ProductID: "p1", Quantity: decimal.NewFromInt(1), UOM: "box"}},
	}
	out, err := NewMarotoSlipGenerator().TransferSlip(tr, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestQty(t *testing.T) {
	assert.Equal(t, "12", qty(decimal.RequireFromString("12.0000")))
	assert.Equal(t, "0.0001", qty(decimal.RequireFromString("0.0001")))
}
