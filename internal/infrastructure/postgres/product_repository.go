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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, base_uom, min_stock_level, cost, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.BaseUOM, p.MinStockLevel, p.Cost, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update actualiza nombre, mínimo y costo. La unidad base no cambia una vez creado el producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, min_stock_level = $3, cost = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Name, p.MinStockLevel, p.Cost, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", p.ID)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU búsqueda sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE lower(sku) = lower($1)`, sku)
}

func (r *ProductRepo) get(ctx context.Context, query, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.SKU, &p.Name, &p.BaseUOM, &p.MinStockLevel, &p.Cost,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List productos ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var w whereBuilder
	query := `SELECT ` + productColumns + ` FROM products ORDER BY sku` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.BaseUOM, &p.MinStockLevel, &p.Cost, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListUOMs unidades alternas del producto.
func (r *ProductRepo) ListUOMs(ctx context.Context, productID string) ([]entity.ProductUOM, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, name, conversion_factor FROM product_uoms WHERE product_id = $1 ORDER BY name`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product uoms: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductUOM
	for rows.Next() {
		var u entity.ProductUOM
		if err := rows.Scan(&u.ProductID, &u.Name, &u.ConversionFactor); err != nil {
			return nil, fmt.Errorf("scan product uom: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// SaveUOM inserta o reemplaza el factor de una unidad alterna.
func (r *ProductRepo) SaveUOM(ctx context.Context, u *entity.ProductUOM) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_uoms (product_id, name, conversion_factor) VALUES ($1, $2, $3)
		ON CONFLICT (product_id, lower(name)) DO UPDATE SET conversion_factor = EXCLUDED.conversion_factor`,
		u.ProductID, u.Name, u.ConversionFactor)
	if err != nil {
		return fmt.Errorf("save product uom: %w", err)
	}
	return nil
}
