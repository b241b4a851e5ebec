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

var _ repository.InventoryTransferRepository = (*TransferRepo)(nil)

// TransferRepo cabecera (inventory_transfers) + líneas (inventory_transfer_items).
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, source_warehouse_id, destination_warehouse_id, branch_id, status, reason,
	transfer_date, created_by_id, posted_at, posted_by_id, cancelled_at, created_at, updated_at`

func (r *TransferRepo) Create(ctx context.Context, t *entity.InventoryTransfer) error {
	query := `INSERT INTO inventory_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, t.ID, t.TransferNumber, t.SourceWarehouseID, t.DestinationWarehouseID, t.BranchID,
		t.Status, t.Reason, t.TransferDate, nullable(t.CreatedByID), t.PostedAt, nullable(t.PostedByID), t.CancelledAt,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransferRepo) Update(ctx context.Context, t *entity.InventoryTransfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_transfers SET
			source_warehouse_id = $2, destination_warehouse_id = $3, branch_id = $4, status = $5, reason = $6,
			transfer_date = $7, posted_at = $8, posted_by_id = $9, cancelled_at = $10, updated_at = $11
		WHERE id = $1`,
		t.ID, t.SourceWarehouseID, t.DestinationWarehouseID, t.BranchID, t.Status, t.Reason,
		t.TransferDate, t.PostedAt, nullable(t.PostedByID), t.CancelledAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("traslado", t.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_transfer_items WHERE transfer_id = $1`, t.ID); err != nil {
		return fmt.Errorf("delete transfer items: %w", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransferRepo) insertItems(ctx context.Context, t *entity.InventoryTransfer) error {
	for i, it := range t.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO inventory_transfer_items (id, transfer_id, product_id, quantity, uom, line_no)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, t.ID, it.ProductID, it.Quantity, it.UOM, i+1)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1`, id)
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.InventoryTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List el filtro de bodega coincide con origen o destino.
func (r *TransferRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.InventoryTransfer, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.WarehouseID != "" {
		w.add("(source_warehouse_id = ? OR destination_warehouse_id = ?)", f.WarehouseID)
	}
	if f.BranchID != "" {
		w.add("branch_id = ?", f.BranchID)
	}
	if f.From != nil {
		w.add("transfer_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("transfer_date <= ?", *f.To)
	}
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers` + w.sql() +
		` ORDER BY created_at, transfer_number` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var list []*entity.InventoryTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadItems(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TransferRepo) loadItems(ctx context.Context, t *entity.InventoryTransfer) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity, uom
		FROM inventory_transfer_items WHERE transfer_id = $1 ORDER BY line_no`, t.ID)
	if err != nil {
		return fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	t.Items = nil
	for rows.Next() {
		var it entity.InventoryTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.Quantity, &it.UOM); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.InventoryTransfer, error) {
	var (
		t                 entity.InventoryTransfer
		createdBy, posted *string
	)
	err := row.Scan(&t.ID, &t.TransferNumber, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.BranchID, &t.Status,
		&t.Reason, &t.TransferDate, &createdBy, &t.PostedAt, &posted, &t.CancelledAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedByID = deref(createdBy)
	t.PostedByID = deref(posted)
	return &t, nil
}
