package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// RegisterMovementUseCase registra entradas por compra y salidas por venta de forma transaccional,
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback. Es la primitiva que consume el POS.
type RegisterMovementUseCase struct {
	deps   Dependencies
	poster stockPoster
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(deps Dependencies) *RegisterMovementUseCase {
	deps = deps.withDefaults()
	return &RegisterMovementUseCase{
		deps:   deps,
		poster: stockPoster{ledger: deps.Ledger, batches: deps.Batches},
	}
}

// Receive registra una entrada PURCHASE: convierte la cantidad a unidad base, el costo a costo
// por unidad base (precio ÷ factor) y crea un lote nuevo.
func (uc *RegisterMovementUseCase) Receive(ctx context.Context, userID string, in dto.ReceiveRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor a cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "el costo no puede ser negativo")
	}
	if _, err := uc.deps.loadWarehouse(ctx, in.WarehouseID, "warehouse_id"); err != nil {
		return nil, err
	}
	pu, err := newProductLookup(uc.deps.Catalog).get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	conv, err := inv.ToBase(in.Quantity, in.UOM, pu.Product, pu.UOMs)
	if err != nil {
		return nil, err
	}
	unitCost, err := inv.CostPerBaseUnit(in.UnitCost, in.UOM, pu.Product, pu.UOMs)
	if err != nil {
		return nil, err
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = entity.ReferenceTypeReceipt
	}
	refID := in.ReferenceID
	if refID == "" {
		refID = uuid.New().String()
	}

	start := time.Now()
	var mov *entity.InventoryMovement
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		mov, err = uc.poster.inbound(ctx, repos, MovementInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Kind:          entity.MovementKindPurchase,
			Quantity:      conv.Quantity,
			UOM:           uomOrBase(in.UOM, pu.Product),
			Factor:        conv.Factor,
			UnitCost:      unitCost,
			ReferenceID:   refID,
			ReferenceType: refType,
			Reason:        in.Reason,
			UserID:        userID,
			At:            uc.deps.Now(),
		})
		return err
	})
	if err != nil {
		uc.deps.Metrics.ObservePosting(refType, OutcomeFailed, time.Since(start))
		return nil, err
	}
	uc.deps.Metrics.ObservePosting(refType, OutcomePosted, time.Since(start))
	uc.deps.publishPosted(ctx, refType, refID, "", userID, mov.CreatedAt, []*entity.InventoryMovement{mov})
	resp := toMovementResponse(mov)
	return &resp, nil
}

// Issue registra una salida SALE u OUT consumiendo lotes FIFO.
func (uc *RegisterMovementUseCase) Issue(ctx context.Context, userID string, in dto.IssueRequest) (*dto.MovementResponse, error) {
	kind := entity.MovementKind(strings.ToUpper(strings.TrimSpace(in.Kind)))
	if kind == "" {
		kind = entity.MovementKindSale
	}
	if kind != entity.MovementKindSale && kind != entity.MovementKindOUT {
		return nil, domain.NewValidationError("kind", "solo se admite SALE u OUT")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor a cero")
	}
	if _, err := uc.deps.loadWarehouse(ctx, in.WarehouseID, "warehouse_id"); err != nil {
		return nil, err
	}
	pu, err := newProductLookup(uc.deps.Catalog).get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	conv, err := inv.ToBase(in.Quantity, in.UOM, pu.Product, pu.UOMs)
	if err != nil {
		return nil, err
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = entity.ReferenceTypeSale
	}
	refID := in.ReferenceID
	if refID == "" {
		refID = uuid.New().String()
	}

	start := time.Now()
	var mov *entity.InventoryMovement
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		mov, _, err = uc.poster.outbound(ctx, repos, MovementInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Kind:          kind,
			Quantity:      conv.Quantity,
			UOM:           uomOrBase(in.UOM, pu.Product),
			Factor:        conv.Factor,
			ReferenceID:   refID,
			ReferenceType: refType,
			Reason:        in.Reason,
			UserID:        userID,
			At:            uc.deps.Now(),
		}, pu.Product.Cost)
		return err
	})
	if err != nil {
		uc.deps.Metrics.ObservePosting(refType, OutcomeFailed, time.Since(start))
		return nil, err
	}
	uc.deps.Metrics.ObservePosting(refType, OutcomePosted, time.Since(start))
	uc.deps.publishPosted(ctx, refType, refID, "", userID, mov.CreatedAt, []*entity.InventoryMovement{mov})
	resp := toMovementResponse(mov)
	return &resp, nil
}

func uomOrBase(uom string, p *entity.Product) string {
	if strings.TrimSpace(uom) == "" {
		return p.BaseUOM
	}
	return strings.TrimSpace(uom)
}
