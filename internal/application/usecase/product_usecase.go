package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CatalogInvalidator descarta entradas cacheadas de un producto tras modificarlo.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, productID string) error
}

// ProductUseCase alta y consulta de productos del catálogo con su tabla de unidades.
// Cost inicial es el respaldo de costo cuando no hay lotes; el stock se maneja vía movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	invalidator CatalogInvalidator
	log         zerolog.Logger
}

// NewProductUseCase construye el caso de uso. invalidator puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, invalidator CatalogInvalidator, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, invalidator: invalidator, log: log}
}

// Create registra un producto y sus unidades alternas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return nil, domain.NewValidationError("sku", "requerido")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if strings.TrimSpace(in.BaseUOM) == "" {
		return nil, domain.NewValidationError("base_uom", "requerido")
	}
	if in.MinStockLevel.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.NewValidationError("cost", "costo y stock mínimo no pueden ser negativos")
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           strings.TrimSpace(in.SKU),
		Name:          strings.TrimSpace(in.Name),
		BaseUOM:       strings.TrimSpace(in.BaseUOM),
		MinStockLevel: in.MinStockLevel,
		Cost:          in.Cost,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	uoms := make([]entity.ProductUOM, 0, len(in.UOMs))
	seen := map[string]struct{}{strings.ToLower(product.BaseUOM): {}}
	for i, u := range in.UOMs {
		uom, err := validateUOM(product, u)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(uom.Name)
		if _, dup := seen[key]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("uoms[%d].name", i), fmt.Sprintf("unidad %s duplicada", uom.Name))
		}
		seen[key] = struct{}{}
		uoms = append(uoms, uom)
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	for i := range uoms {
		if err := uc.repo.SaveUOM(ctx, &uoms[i]); err != nil {
			return nil, err
		}
	}
	return toProductResponse(product, uoms), nil
}

// AddUOM agrega una unidad alterna. Una unidad existente no se redefine: su factor ya puede
// estar referenciado por movimientos posteados.
func (uc *ProductUseCase) AddUOM(ctx context.Context, productID string, in dto.ProductUOMRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}
	uom, err := validateUOM(product, in)
	if err != nil {
		return nil, err
	}
	current, err := uc.repo.ListUOMs(ctx, productID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(uom.Name, product.BaseUOM) {
		return nil, domain.ErrDuplicate
	}
	for _, u := range current {
		if strings.EqualFold(u.Name, uom.Name) {
			return nil, domain.ErrDuplicate
		}
	}
	if err := uc.repo.SaveUOM(ctx, &uom); err != nil {
		return nil, err
	}
	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx, productID); err != nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo invalidar cache de catálogo")
		}
	}
	return toProductResponse(product, append(current, uom)), nil
}

// GetByID obtiene un producto por ID con sus unidades.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	uoms, err := uc.repo.ListUOMs(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, uoms), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validateUOM(product *entity.Product, in dto.ProductUOMRequest) (entity.ProductUOM, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.ProductUOM{}, domain.NewValidationError("name", "el nombre de la unidad es obligatorio")
	}
	if !in.ConversionFactor.IsPositive() {
		return entity.ProductUOM{}, &domain.InvalidConversionFactorError{ProductID: product.ID, UOM: name, Factor: in.ConversionFactor}
	}
	return entity.ProductUOM{ProductID: product.ID, Name: name, ConversionFactor: in.ConversionFactor}, nil
}

func toProductResponse(p *entity.Product, uoms []entity.ProductUOM) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		BaseUOM:       p.BaseUOM,
		MinStockLevel: p.MinStockLevel,
		Cost:          p.Cost,
		UOMs:          make([]dto.ProductUOMResponse, 0, len(uoms)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, u := range uoms {
		out.UOMs = append(out.UOMs, dto.ProductUOMResponse{Name: u.Name, ConversionFactor: u.ConversionFactor})
	}
	return out
}
