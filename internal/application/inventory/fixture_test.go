package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: almacén en memoria con dos bodegas y dos productos
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser     = "user-1"
	testReviewer = "user-2"
	branchID     = "branch-1"
	whA          = "wh-a"
	whB          = "wh-b"
	productBolt  = "prod-bolt" // base und, caja = 12 und
	productWire  = "prod-wire" // base m, sin unidades alternas
)

var fixedNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	movements   *inventory.RegisterMovementUseCase
	adjustments *inventory.AdjustmentUseCase
	transfers   *inventory.TransferUseCase
	approvals   *inventory.ApprovalUseCase
	query       *inventory.QueryUseCase
	lowStock    *inventory.ReplenishmentUseCase
}

func newFixture(t *testing.T, policy inventory.ApprovalPolicy) *fixture {
	t.Helper()
	return buildFixture(t, policy, nil)
}

// newNegativeStockFixture igual que newFixture pero el ledger admite saldos bajo cero.
func newNegativeStockFixture(t *testing.T) *fixture {
	t.Helper()
	return buildFixture(t, nil, inventory.NewLedger(true))
}

func buildFixture(t *testing.T, policy inventory.ApprovalPolicy, ledger *inventory.Ledger) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: whA, BranchID: branchID, Name: "Principal"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: whB, BranchID: branchID, Name: "Satélite"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: productBolt, SKU: "BOLT-01", Name: "Tornillo", BaseUOM: "und",
		MinStockLevel: decimal.NewFromInt(20), Cost: decimal.NewFromInt(4),
	}))
	require.NoError(t, store.Products().SaveUOM(ctx, &entity.ProductUOM{
		ProductID: productBolt, Name: "caja", ConversionFactor: decimal.NewFromInt(12),
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: productWire, SKU: "WIRE-01", Name: "Cable", BaseUOM: "m", Cost: decimal.NewFromInt(2),
	}))

	deps := inventory.Dependencies{
		TxRunner:   store,
		Repos:      store.Repos(),
		Catalog:    inventory.RepositoryCatalog{Products: store.Products()},
		Warehouses: store.Warehouses(),
		Ledger:     ledger,
		Policy:     policy,
		Audit:      store.AuditLogs(),
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return fixedNow },
	}
	approvals := inventory.NewApprovalUseCase(deps)
	deps.Approvals = approvals
	adjustments := inventory.NewAdjustmentUseCase(deps)
	transfers := inventory.NewTransferUseCase(deps)
	approvals.Bind(adjustments, transfers)

	return &fixture{
		ctx:         ctx,
		store:       store,
		movements:   inventory.NewRegisterMovementUseCase(deps),
		adjustments: adjustments,
		transfers:   transfers,
		approvals:   approvals,
		query:       inventory.NewQueryUseCase(deps),
		lowStock:    inventory.NewReplenishmentUseCase(store.Levels()),
	}
}

func (f *fixture) receive(t *testing.T, productID, warehouseID, qty, uom, cost string) *dto.MovementResponse {
	t.Helper()
	out, err := f.movements.Receive(f.ctx, testUser, dto.ReceiveRequest{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.RequireFromString(qty),
		UOM:         uom,
		UnitCost:    decimal.RequireFromString(cost),
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stock(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	out, err := f.query.GetInventory(f.ctx, productID, warehouseID)
	require.NoError(t, err)
	return out.Quantity
}

func (f *fixture) journal(t *testing.T, filter dto.MovementFilters) []dto.MovementResponse {
	t.Helper()
	filter.Limit = 100
	out, err := f.query.ListMovements(f.ctx, filter)
	require.NoError(t, err)
	return out.Items
}

// openLots suma el remanente de los lotes abiertos de (producto, bodega).
func (f *fixture) openLots(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	lots, err := f.query.ListBatches(f.ctx, productID, warehouseID, false)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, b := range lots {
		sum = sum.Add(b.Quantity)
	}
	return sum
}

// journalSum suma con signo del diario de (producto, bodega).
func (f *fixture) journalSum(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	sum := decimal.Zero
	for _, m := range f.journal(t, dto.MovementFilters{ProductID: productID, WarehouseID: warehouseID}) {
		sum = sum.Add(m.SignedQuantity)
	}
	return sum
}

func (f *fixture) adjustment(t *testing.T, warehouseID string, items ...dto.AdjustmentItemRequest) *dto.AdjustmentResponse {
	t.Helper()
	out, err := f.adjustments.Create(f.ctx, testUser, dto.CreateAdjustmentRequest{
		WarehouseID: warehouseID,
		Reason:      "Conteo cíclico",
		Items:       items,
	})
	require.NoError(t, err)
	return out
}

func absolute(productID, qty string) dto.AdjustmentItemRequest {
	return dto.AdjustmentItemRequest{ProductID: productID, Quantity: decimal.RequireFromString(qty), Type: entity.AdjustmentTypeAbsolute}
}

func relative(productID, qty string) dto.AdjustmentItemRequest {
	return dto.AdjustmentItemRequest{ProductID: productID, Quantity: decimal.RequireFromString(qty), Type: entity.AdjustmentTypeRelative}
}

func assertQty(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}
