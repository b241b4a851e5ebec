package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

type stockRepo struct{ a *access }

var _ repository.StockRepository = (*stockRepo)(nil)

func (r *stockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	r.a.read(func(st *ledgerState) {
		if s, ok := st.stock[stockKey(productID, warehouseID)]; ok {
			out = &s
		}
	})
	return out, nil
}

// GetForUpdate en memoria la transacción ya es exclusiva; crea la fila en cero si no existe.
func (r *stockRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out entity.Stock
	err := r.a.write(func(st *ledgerState) error {
		key := stockKey(productID, warehouseID)
		s, ok := st.stock[key]
		if !ok {
			s = entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
			st.stock[key] = s
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *stockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	return r.a.write(func(st *ledgerState) error {
		st.stock[stockKey(stock.ProductID, stock.WarehouseID)] = *stock
		return nil
	})
}

func (r *stockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	return r.list(func(s entity.Stock) bool { return s.WarehouseID == warehouseID }), nil
}

func (r *stockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	return r.list(func(s entity.Stock) bool { return s.ProductID == productID }), nil
}

func (r *stockRepo) list(match func(entity.Stock) bool) []*entity.Stock {
	var out []*entity.Stock
	r.a.read(func(st *ledgerState) {
		for _, s := range st.stock {
			if match(s) {
				s := s
				out = append(out, &s)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return stockKey(out[i].ProductID, out[i].WarehouseID) < stockKey(out[j].ProductID, out[j].WarehouseID)
	})
	return out
}

type movementRepo struct{ a *access }

var _ repository.InventoryMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.a.write(func(st *ledgerState) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	r.a.read(func(st *ledgerState) {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	r.a.read(func(st *ledgerState) {
		for _, m := range st.movements {
			switch {
			case f.ProductID != "" && m.ProductID != f.ProductID,
				f.WarehouseID != "" && m.WarehouseID != f.WarehouseID,
				f.Kind != "" && m.Kind != f.Kind,
				f.ReferenceID != "" && m.ReferenceID != f.ReferenceID,
				f.From != nil && m.CreatedAt.Before(*f.From),
				f.To != nil && m.CreatedAt.After(*f.To):
				continue
			}
			m := m
			out = append(out, &m)
		}
	})
	return paginate(out, f.Limit, f.Offset), nil
}

type batchRepo struct{ a *access }

var _ repository.InventoryBatchRepository = (*batchRepo)(nil)

func (r *batchRepo) Create(_ context.Context, b *entity.InventoryBatch) error {
	return r.a.write(func(st *ledgerState) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		st.batchSeq++
		b.Seq = st.batchSeq
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *batchRepo) ListOpenForUpdate(ctx context.Context, productID, warehouseID string) ([]entity.InventoryBatch, error) {
	return r.List(ctx, productID, warehouseID, false)
}

func (r *batchRepo) UpdateQuantity(_ context.Context, batchID string, quantity decimal.Decimal) error {
	return r.a.write(func(st *ledgerState) error {
		b, ok := st.batches[batchID]
		if !ok {
			return domain.NewNotFoundError("lote", batchID)
		}
		b.Quantity = quantity
		st.batches[batchID] = b
		return nil
	})
}

func (r *batchRepo) List(_ context.Context, productID, warehouseID string, includeExhausted bool) ([]entity.InventoryBatch, error) {
	var out []entity.InventoryBatch
	r.a.read(func(st *ledgerState) {
		for _, b := range st.batches {
			if b.ProductID != productID || b.WarehouseID != warehouseID {
				continue
			}
			if !includeExhausted && !b.Quantity.IsPositive() {
				continue
			}
			out = append(out, b)
		}
	})
	inv.SortOldestFirst(out)
	return out, nil
}

type sequenceRepo struct{ a *access }

var _ repository.DocumentSequenceRepository = (*sequenceRepo)(nil)

func (r *sequenceRepo) Next(_ context.Context, prefix string) (int64, error) {
	var n int64
	err := r.a.write(func(st *ledgerState) error {
		st.sequences[prefix]++
		n = st.sequences[prefix]
		return nil
	})
	return n, err
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
