package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, product_id, warehouse_id, kind, quantity, uom, conversion_factor,
	unit_cost, total_cost, balance_after, reference_id, reference_type, reason, created_at, created_by`

// Create agrega un movimiento al diario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, string(m.Kind), m.Quantity, m.UOM, m.ConversionFactor,
		m.UnitCost, m.TotalCost, m.BalanceAfter, nullable(m.ReferenceID), nullable(m.ReferenceType),
		m.Reason, m.CreatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List movimientos filtrados en orden de registro.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var w whereBuilder
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.Kind != "" {
		w.add("kind = ?", string(f.Kind))
	}
	if f.ReferenceID != "" {
		w.add("reference_id = ?", f.ReferenceID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements` + w.sql() +
		` ORDER BY created_at, seq` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var (
		m                       entity.InventoryMovement
		kind                    string
		refID, refType, creator *string
	)
	err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &kind, &m.Quantity, &m.UOM, &m.ConversionFactor,
		&m.UnitCost, &m.TotalCost, &m.BalanceAfter, &refID, &refType, &m.Reason, &m.CreatedAt, &creator)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	m.ReferenceID = deref(refID)
	m.ReferenceType = deref(refType)
	m.CreatedBy = deref(creator)
	return &m, nil
}
