package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// catalogState productos, unidades alternas y bodegas. No participa de las transacciones del diario.
type catalogState struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	uoms       map[string][]entity.ProductUOM
	warehouses map[string]entity.Warehouse
}

func newCatalogState() *catalogState {
	return &catalogState{
		products:   make(map[string]entity.Product),
		uoms:       make(map[string][]entity.ProductUOM),
		warehouses: make(map[string]entity.Warehouse),
	}
}

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{c: s.catalog} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{c: s.catalog} }

// Levels consulta de stock bajo sobre el saldo confirmado.
func (s *Store) Levels() repository.InventoryLevelRepository { return &levelRepo{s: s} }

type productRepo struct{ c *catalogState }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.c.products {
		if strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.c.products[p.ID] = *p
	return nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.products[p.ID]; !ok {
		return domain.NewNotFoundError("producto", p.ID)
	}
	r.c.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	p, ok := r.c.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	for _, p := range r.c.products {
		if strings.EqualFold(p.SKU, sku) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.c.mu.RLock()
	out := make([]*entity.Product, 0, len(r.c.products))
	for _, p := range r.c.products {
		p := p
		out = append(out, &p)
	}
	r.c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) ListUOMs(_ context.Context, productID string) ([]entity.ProductUOM, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return append([]entity.ProductUOM(nil), r.c.uoms[productID]...), nil
}

func (r *productRepo) SaveUOM(_ context.Context, u *entity.ProductUOM) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.products[u.ProductID]; !ok {
		return domain.NewNotFoundError("producto", u.ProductID)
	}
	list := r.c.uoms[u.ProductID]
	for i := range list {
		if strings.EqualFold(list[i].Name, u.Name) {
			list[i] = *u
			return nil
		}
	}
	r.c.uoms[u.ProductID] = append(list, *u)
	return nil
}

type warehouseRepo struct{ c *catalogState }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	r.c.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	w, ok := r.c.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.c.mu.RLock()
	var out []*entity.Warehouse
	for _, w := range r.c.warehouses {
		if branchID != "" && w.BranchID != branchID {
			continue
		}
		w := w
		out = append(out, &w)
	}
	r.c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

type levelRepo struct{ s *Store }

func (r *levelRepo) GetProductsBelowMinimum(_ context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	r.s.catalog.mu.RLock()
	products := make([]entity.Product, 0, len(r.s.catalog.products))
	for _, p := range r.s.catalog.products {
		products = append(products, p)
	}
	r.s.catalog.mu.RUnlock()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.LowStockItem
	for _, p := range products {
		if !p.MinStockLevel.IsPositive() {
			continue
		}
		current := r.s.state.stock[stockKey(p.ID, warehouseID)].Quantity
		if !current.LessThan(p.MinStockLevel) {
			continue
		}
		out = append(out, repository.LowStockItem{
			ProductID:     p.ID,
			SKU:           p.SKU,
			ProductName:   p.Name,
			WarehouseID:   warehouseID,
			CurrentStock:  current,
			MinStockLevel: p.MinStockLevel,
			UnitCost:      p.Cost,
		})
	}
	return out, nil
}
