package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// QueryUseCase consultas de saldos, diario y lotes.
type QueryUseCase struct {
	deps Dependencies
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(deps Dependencies) *QueryUseCase {
	return &QueryUseCase{deps: deps.withDefaults()}
}

// GetInventory saldo de un producto en una bodega; cero si nunca tuvo movimientos.
func (uc *QueryUseCase) GetInventory(ctx context.Context, productID, warehouseID string) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if _, err := uc.deps.loadWarehouse(ctx, warehouseID, "warehouse_id"); err != nil {
		return nil, err
	}
	pu, err := newProductLookup(uc.deps.Catalog).get(ctx, productID)
	if err != nil {
		return nil, err
	}
	stock, err := uc.deps.Repos.Stock.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, BaseUOM: pu.Product.BaseUOM}
	if stock != nil {
		out.Quantity = stock.Quantity
		updated := stock.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out, nil
}

// ListStock saldos registrados de una bodega (warehouseID) o de un producto en todas sus
// bodegas (productID). Exactamente uno de los dos filtros.
func (uc *QueryUseCase) ListStock(ctx context.Context, productID, warehouseID string) (*dto.StockListResponse, error) {
	var (
		list []*entity.Stock
		err  error
	)
	switch {
	case productID != "" && warehouseID != "":
		return nil, domain.NewValidationError("product_id", "use GetInventory para un par producto/bodega")
	case warehouseID != "":
		if _, err := uc.deps.loadWarehouse(ctx, warehouseID, "warehouse_id"); err != nil {
			return nil, err
		}
		list, err = uc.deps.Repos.Stock.ListByWarehouse(ctx, warehouseID)
	case productID != "":
		list, err = uc.deps.Repos.Stock.ListByProduct(ctx, productID)
	default:
		return nil, domain.NewValidationError("warehouse_id", "indique warehouse_id o product_id")
	}
	if err != nil {
		return nil, err
	}

	lookup := newProductLookup(uc.deps.Catalog)
	if productID != "" {
		if _, err := lookup.get(ctx, productID); err != nil {
			return nil, err
		}
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		pu, err := lookup.get(ctx, s.ProductID)
		if err != nil {
			return nil, err
		}
		updated := s.UpdatedAt
		items = append(items, dto.StockResponse{
			ProductID:   s.ProductID,
			WarehouseID: s.WarehouseID,
			BaseUOM:     pu.Product.BaseUOM,
			Quantity:    s.Quantity,
			UpdatedAt:   &updated,
		})
	}
	return &dto.StockListResponse{Items: items}, nil
}

// ListMovements lista el diario con filtros, en orden cronológico.
func (uc *QueryUseCase) ListMovements(ctx context.Context, f dto.MovementFilters) (*dto.MovementListResponse, error) {
	f.DefaultPage()
	kind := entity.MovementKind(f.Kind)
	if kind != "" && !kind.Valid() {
		return nil, domain.NewValidationError("kind", "tipo de movimiento desconocido")
	}
	list, err := uc.deps.Repos.Movements.List(ctx, repository.MovementFilter{
		ProductID:   f.ProductID,
		WarehouseID: f.WarehouseID,
		Kind:        kind,
		ReferenceID: f.ReferenceID,
		From:        f.From,
		To:          f.To,
		Limit:       f.Limit,
		Offset:      f.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// ListBatches lotes de un producto en una bodega, del más antiguo al más nuevo.
func (uc *QueryUseCase) ListBatches(ctx context.Context, productID, warehouseID string, includeExhausted bool) ([]dto.BatchResponse, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	list, err := uc.deps.Repos.Batches.List(ctx, productID, warehouseID, includeExhausted)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}
