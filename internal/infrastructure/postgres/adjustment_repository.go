package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryAdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo cabecera (inventory_adjustments) + líneas (inventory_adjustment_items).
type AdjustmentRepo struct {
	q Querier
}

func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, adjustment_number, branch_id, warehouse_id, status, reason, reference_number,
	adjustment_date, created_by_id, posted_at, posted_by_id, created_at, updated_at`

// Create inserta la cabecera y sus líneas. Debe ejecutarse dentro de una transacción.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.InventoryAdjustment) error {
	query := `INSERT INTO inventory_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, a.ID, a.AdjustmentNumber, a.BranchID, a.WarehouseID, a.Status, a.Reason,
		a.ReferenceNumber, a.AdjustmentDate, nullable(a.CreatedByID), a.PostedAt, nullable(a.PostedByID),
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return r.insertItems(ctx, a)
}

// Update guarda la cabecera y reemplaza las líneas.
func (r *AdjustmentRepo) Update(ctx context.Context, a *entity.InventoryAdjustment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_adjustments SET
			branch_id = $2, warehouse_id = $3, status = $4, reason = $5, reference_number = $6,
			adjustment_date = $7, posted_at = $8, posted_by_id = $9, updated_at = $10
		WHERE id = $1`,
		a.ID, a.BranchID, a.WarehouseID, a.Status, a.Reason, a.ReferenceNumber,
		a.AdjustmentDate, a.PostedAt, nullable(a.PostedByID), a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("ajuste", a.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_adjustment_items WHERE adjustment_id = $1`, a.ID); err != nil {
		return fmt.Errorf("delete adjustment items: %w", err)
	}
	return r.insertItems(ctx, a)
}

func (r *AdjustmentRepo) insertItems(ctx context.Context, a *entity.InventoryAdjustment) error {
	for i, it := range a.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO inventory_adjustment_items
				(id, adjustment_id, product_id, quantity, uom, type, system_quantity, actual_quantity, line_no)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, a.ID, it.ProductID, it.Quantity, it.UOM, it.Type, it.SystemQuantity, it.ActualQuantity, i+1)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert adjustment item: %w", err)
		}
	}
	return nil
}

func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.InventoryAdjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM inventory_adjustments WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; dos posteos del mismo ajuste se serializan aquí.
func (r *AdjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAdjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM inventory_adjustments WHERE id = $1 FOR UPDATE`, id)
}

func (r *AdjustmentRepo) get(ctx context.Context, query, id string) (*entity.InventoryAdjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	if err := r.loadItems(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AdjustmentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.InventoryAdjustment, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.BranchID != "" {
		w.add("branch_id = ?", f.BranchID)
	}
	if f.From != nil {
		w.add("adjustment_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("adjustment_date <= ?", *f.To)
	}
	query := `SELECT ` + adjustmentColumns + ` FROM inventory_adjustments` + w.sql() +
		` ORDER BY created_at, adjustment_number` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	var list []*entity.InventoryAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range list {
		if err := r.loadItems(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *AdjustmentRepo) loadItems(ctx context.Context, a *entity.InventoryAdjustment) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, adjustment_id, product_id, quantity, uom, type, system_quantity, actual_quantity
		FROM inventory_adjustment_items WHERE adjustment_id = $1 ORDER BY line_no`, a.ID)
	if err != nil {
		return fmt.Errorf("list adjustment items: %w", err)
	}
	defer rows.Close()
	a.Items = nil
	for rows.Next() {
		var it entity.InventoryAdjustmentItem
		if err := rows.Scan(&it.ID, &it.AdjustmentID, &it.ProductID, &it.Quantity, &it.UOM, &it.Type,
			&it.SystemQuantity, &it.ActualQuantity); err != nil {
			return fmt.Errorf("scan adjustment item: %w", err)
		}
		a.Items = append(a.Items, it)
	}
	return rows.Err()
}

func scanAdjustment(row pgx.Row) (*entity.InventoryAdjustment, error) {
	var (
		a                 entity.InventoryAdjustment
		createdBy, posted *string
	)
	err := row.Scan(&a.ID, &a.AdjustmentNumber, &a.BranchID, &a.WarehouseID, &a.Status, &a.Reason, &a.ReferenceNumber,
		&a.AdjustmentDate, &createdBy, &a.PostedAt, &posted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedByID = deref(createdBy)
	a.PostedByID = deref(posted)
	return &a, nil
}
