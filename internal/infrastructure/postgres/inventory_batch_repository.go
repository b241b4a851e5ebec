package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryBatchRepository = (*InventoryBatchRepo)(nil)

// InventoryBatchRepo lotes de costo FIFO.
type InventoryBatchRepo struct {
	q Querier
}

func NewInventoryBatchRepository(q Querier) *InventoryBatchRepo {
	return &InventoryBatchRepo{q: q}
}

const batchColumns = `id, product_id, warehouse_id, initial_quantity, quantity, unit_cost, reference_id, reference_type, created_at`

// Create inserta el lote; seq lo asigna la base y se devuelve en b.Seq.
func (r *InventoryBatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	query := `INSERT INTO inventory_batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING seq`
	err := r.q.QueryRow(ctx, query, b.ID, b.ProductID, b.WarehouseID, b.InitialQuantity, b.Quantity, b.UnitCost,
		nullable(b.ReferenceID), nullable(b.ReferenceType), b.CreatedAt).Scan(&b.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// ListOpenForUpdate bloquea los lotes abiertos en orden FIFO.
func (r *InventoryBatchRepo) ListOpenForUpdate(ctx context.Context, productID, warehouseID string) ([]entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `, seq FROM inventory_batches
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity > 0
		ORDER BY created_at, seq
		FOR UPDATE`
	return r.list(ctx, query, productID, warehouseID)
}

func (r *InventoryBatchRepo) UpdateQuantity(ctx context.Context, batchID string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_batches SET quantity = $2 WHERE id = $1`, batchID, quantity)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("lote", batchID)
	}
	return nil
}

func (r *InventoryBatchRepo) List(ctx context.Context, productID, warehouseID string, includeExhausted bool) ([]entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `, seq FROM inventory_batches WHERE product_id = $1 AND warehouse_id = $2`
	if !includeExhausted {
		query += ` AND quantity > 0`
	}
	query += ` ORDER BY created_at, seq`
	return r.list(ctx, query, productID, warehouseID)
}

func (r *InventoryBatchRepo) list(ctx context.Context, query string, args ...any) ([]entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var out []entity.InventoryBatch
	for rows.Next() {
		var (
			b              entity.InventoryBatch
			refID, refType *string
		)
		if err := rows.Scan(&b.ID, &b.ProductID, &b.WarehouseID, &b.InitialQuantity, &b.Quantity, &b.UnitCost,
			&refID, &refType, &b.CreatedAt, &b.Seq); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.ReferenceID = deref(refID)
		b.ReferenceType = deref(refType)
		out = append(out, b)
	}
	return out, rows.Err()
}
