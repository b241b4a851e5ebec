package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo consultas de saldo cruzadas con el catálogo.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// GetProductsBelowMinimum productos cuyo saldo en la bodega es menor a su mínimo.
// Ordena por déficit descendente (mayor quiebre primero).
func (r *InventoryLevelRepo) GetProductsBelowMinimum(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT
			p.id,
			p.sku,
			p.name,
			COALESCE(s.quantity, 0) AS current_stock,
			p.min_stock_level,
			p.cost
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id AND s.warehouse_id = $1
		WHERE p.min_stock_level > 0
		  AND COALESCE(s.quantity, 0) < p.min_stock_level
		ORDER BY (p.min_stock_level - COALESCE(s.quantity, 0)) DESC, p.sku`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("get products below minimum: %w", err)
	}
	defer rows.Close()

	var items []repository.LowStockItem
	for rows.Next() {
		item := repository.LowStockItem{WarehouseID: warehouseID}
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.ProductName,
			&item.CurrentStock, &item.MinStockLevel, &item.UnitCost); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
