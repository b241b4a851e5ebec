package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// LotInput datos de un lote nuevo.
type LotInput struct {
	ProductID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ReferenceID   string
	ReferenceType string
	At            time.Time
}

// BatchStore lotes de costo FIFO: se crean en cada entrada y se consumen del más antiguo al más nuevo.
type BatchStore struct{}

// NewBatchStore construye el store de lotes.
func NewBatchStore() *BatchStore { return &BatchStore{} }

// AllocateConsumption bloquea los lotes abiertos y consume quantity. Si no alcanza devuelve
// InsufficientBatchStockError sin escribir nada.
func (s *BatchStore) AllocateConsumption(ctx context.Context, repos TxRepos, productID, warehouseID string, quantity decimal.Decimal) ([]entity.BatchAllocation, error) {
	batches, err := repos.Batches.ListOpenForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	inv.SortOldestFirst(batches)
	allocs, remaining := inv.AllocateFIFO(batches, quantity)
	if remaining.IsPositive() {
		return nil, domain.NewInsufficientBatchStockError(productID, warehouseID, inv.AvailableQuantity(batches), quantity)
	}
	if err := s.apply(ctx, repos, batches, allocs); err != nil {
		return nil, err
	}
	return allocs, nil
}

// AllocateAvailable consume lo que haya en lotes y devuelve la parte no cubierta.
// Se usa cuando se permiten saldos negativos.
func (s *BatchStore) AllocateAvailable(ctx context.Context, repos TxRepos, productID, warehouseID string, quantity decimal.Decimal) ([]entity.BatchAllocation, decimal.Decimal, error) {
	batches, err := repos.Batches.ListOpenForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	inv.SortOldestFirst(batches)
	allocs, remaining := inv.AllocateFIFO(batches, quantity)
	if err := s.apply(ctx, repos, batches, allocs); err != nil {
		return nil, decimal.Zero, err
	}
	return allocs, remaining, nil
}

func (s *BatchStore) apply(ctx context.Context, repos TxRepos, batches []entity.InventoryBatch, allocs []entity.BatchAllocation) error {
	byID := make(map[string]decimal.Decimal, len(batches))
	for _, b := range batches {
		byID[b.ID] = b.Quantity
	}
	for _, a := range allocs {
		if err := repos.Batches.UpdateQuantity(ctx, a.BatchID, byID[a.BatchID].Sub(a.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

// Receive crea siempre un lote nuevo; nunca se fusiona con uno existente.
func (s *BatchStore) Receive(ctx context.Context, repos TxRepos, in LotInput) (*entity.InventoryBatch, error) {
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	b := &entity.InventoryBatch{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		InitialQuantity: in.Quantity,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceID:     in.ReferenceID,
		ReferenceType:   in.ReferenceType,
		CreatedAt:       at,
	}
	if err := repos.Batches.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AverageCost costo promedio ponderado de los lotes abiertos; fallback si no hay.
func (s *BatchStore) AverageCost(ctx context.Context, repos TxRepos, productID, warehouseID string, fallback decimal.Decimal) (decimal.Decimal, error) {
	batches, err := repos.Batches.List(ctx, productID, warehouseID, false)
	if err != nil {
		return decimal.Zero, err
	}
	return inv.WeightedAverageCost(batches, fallback), nil
}
