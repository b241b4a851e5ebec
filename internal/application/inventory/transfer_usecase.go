package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const transferResource = entity.ReferenceTypeTransfer

// TransferUseCase flujo de traslados entre bodegas: DRAFT -> POSTED | CANCELLED.
// Al postear, cada línea produce TRANSFER_OUT en origen y TRANSFER_IN en destino con la
// misma referencia (el ID del traslado); los lotes consumidos se recrean en destino a su costo.
type TransferUseCase struct {
	deps   Dependencies
	poster stockPoster
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(deps Dependencies) *TransferUseCase {
	deps = deps.withDefaults()
	return &TransferUseCase{
		deps:   deps,
		poster: stockPoster{ledger: deps.Ledger, batches: deps.Batches},
	}
}

// Create valida y guarda un traslado en DRAFT con número TRF-YYYYMMDD-NNNN.
func (uc *TransferUseCase) Create(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	src, _, err := uc.validateWarehouses(ctx, in.SourceWarehouseID, in.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = src.BranchID
	}
	id := uuid.New().String()
	items, err := uc.validateItems(ctx, id, in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	date := now
	if in.TransferDate != nil {
		date = in.TransferDate.UTC()
	}
	tr := &entity.InventoryTransfer{
		ID:                     id,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		BranchID:               branchID,
		Status:                 entity.DocumentStatusDraft,
		Reason:                 strings.TrimSpace(in.Reason),
		TransferDate:           date,
		CreatedByID:            userID,
		CreatedAt:              now,
		UpdatedAt:              now,
		Items:                  items,
	}
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		number, err := documentNumber(ctx, repos.Sequences, "TRF", now)
		if err != nil {
			return err
		}
		tr.TransferNumber = number
		return repos.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, userID, AuditActionCreate, transferResource, tr.ID, map[string]any{
		"transfer_number": tr.TransferNumber,
		"source":          tr.SourceWarehouseID,
		"destination":     tr.DestinationWarehouseID,
		"items":           len(tr.Items),
	})
	return toTransferResponse(tr), nil
}

// Update modifica un traslado en DRAFT.
func (uc *TransferUseCase) Update(ctx context.Context, id, userID string, in dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	var items []entity.InventoryTransferItem
	if in.Items != nil {
		var err error
		if items, err = uc.validateItems(ctx, id, in.Items); err != nil {
			return nil, err
		}
	}

	var tr *entity.InventoryTransfer
	err := uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		tr, err = repos.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.NewNotFoundError("traslado", id)
		}
		if !tr.IsDraft() {
			return domain.NewInvalidStateError("traslado", tr.TransferNumber, tr.Status, "editar")
		}
		source, dest := tr.SourceWarehouseID, tr.DestinationWarehouseID
		if in.SourceWarehouseID != nil {
			source = *in.SourceWarehouseID
		}
		if in.DestinationWarehouseID != nil {
			dest = *in.DestinationWarehouseID
		}
		if source != tr.SourceWarehouseID || dest != tr.DestinationWarehouseID {
			if _, _, err := uc.validateWarehouses(ctx, source, dest); err != nil {
				return err
			}
			tr.SourceWarehouseID, tr.DestinationWarehouseID = source, dest
		}
		if in.Reason != nil {
			tr.Reason = strings.TrimSpace(*in.Reason)
		}
		if in.TransferDate != nil {
			tr.TransferDate = in.TransferDate.UTC()
		}
		if items != nil {
			tr.Items = items
		}
		tr.UpdatedAt = uc.deps.Now()
		return repos.Transfers.Update(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, userID, AuditActionUpdate, transferResource, tr.ID, map[string]any{
		"transfer_number": tr.TransferNumber,
		"items_replaced":  items != nil,
	})
	return toTransferResponse(tr), nil
}

// Post postea el traslado (previa política de aprobación) en una sola transacción.
func (uc *TransferUseCase) Post(ctx context.Context, id, userID string) (*dto.PostTransferResponse, error) {
	start := time.Now()
	tr, err := uc.deps.Repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.NewNotFoundError("traslado", id)
	}
	if !tr.IsDraft() {
		uc.deps.Metrics.ObservePosting(transferResource, OutcomeFailed, time.Since(start))
		return nil, domain.NewInvalidStateError("traslado", tr.TransferNumber, tr.Status, "postear")
	}

	if uc.deps.Policy != nil {
		payload, err := uc.approvalPayload(ctx, tr)
		if err != nil {
			return nil, err
		}
		required, err := uc.deps.Policy.IsApprovalRequired(ctx, entity.ApprovalKindTransfer, payload)
		if err != nil {
			return nil, fmt.Errorf("approval policy: %w", err)
		}
		if required {
			if uc.deps.Approvals == nil {
				return nil, fmt.Errorf("approval requester not configured")
			}
			req, err := uc.deps.Approvals.CreateApprovalRequest(ctx, entity.ApprovalKindTransfer, tr.ID, payload, userID, tr.Reason)
			if err != nil {
				return nil, err
			}
			uc.deps.Metrics.ObservePosting(transferResource, OutcomePendingApproval, time.Since(start))
			uc.deps.Logger.Info().Str("transfer_id", tr.ID).Str("approval_id", req.ID).Msg("traslado pendiente de aprobación")
			return &dto.PostTransferResponse{Transfer: toTransferResponse(tr), ApprovalRequest: toApprovalResponse(req)}, nil
		}
	}

	var (
		posted *entity.InventoryTransfer
		movs   []*entity.InventoryMovement
		lookup = newProductLookup(uc.deps.Catalog)
	)
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		posted, movs, err = uc.postInTx(ctx, repos, lookup, id, userID)
		return err
	})
	if err != nil {
		uc.deps.Metrics.ObservePosting(transferResource, OutcomeFailed, time.Since(start))
		uc.deps.Logger.Warn().Err(err).Str("transfer_id", id).Msg("posteo de traslado fallido")
		return nil, err
	}
	uc.deps.Metrics.ObservePosting(transferResource, OutcomePosted, time.Since(start))
	uc.afterPost(ctx, posted, movs, lookup, userID)
	return &dto.PostTransferResponse{Transfer: toTransferResponse(posted)}, nil
}

func (uc *TransferUseCase) postApproved(ctx context.Context, repos TxRepos, entityID, reviewerID string) (func(context.Context), error) {
	lookup := newProductLookup(uc.deps.Catalog)
	posted, movs, err := uc.postInTx(ctx, repos, lookup, entityID, reviewerID)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) {
		uc.deps.Metrics.ObservePosting(transferResource, OutcomePosted, 0)
		uc.afterPost(ctx, posted, movs, lookup, reviewerID)
	}, nil
}

func (uc *TransferUseCase) postInTx(ctx context.Context, repos TxRepos, lookup *productLookup, id, userID string) (*entity.InventoryTransfer, []*entity.InventoryMovement, error) {
	tr, err := repos.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if tr == nil {
		return nil, nil, domain.NewNotFoundError("traslado", id)
	}
	if !tr.IsDraft() {
		return nil, nil, domain.NewInvalidStateError("traslado", tr.TransferNumber, tr.Status, "postear")
	}

	now := uc.deps.Now()
	reason := tr.Reason
	if reason == "" {
		reason = fmt.Sprintf("Traslado %s", tr.TransferNumber)
	}
	movs := make([]*entity.InventoryMovement, 0, 2*len(tr.Items))
	for _, item := range tr.Items {
		pu, err := lookup.get(ctx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		conv, err := inv.ToBase(item.Quantity, item.UOM, pu.Product, pu.UOMs)
		if err != nil {
			return nil, nil, err
		}
		base := MovementInput{
			ProductID:     item.ProductID,
			Quantity:      conv.Quantity,
			UOM:           item.UOM,
			Factor:        conv.Factor,
			ReferenceID:   tr.ID,
			ReferenceType: entity.ReferenceTypeTransfer,
			Reason:        reason,
			UserID:        userID,
			At:            now,
		}

		out := base
		out.WarehouseID = tr.SourceWarehouseID
		out.Kind = entity.MovementKindTransferOUT
		outMov, allocs, err := uc.poster.outbound(ctx, repos, out, pu.Product.Cost)
		if err != nil {
			return nil, nil, err
		}

		in := base
		in.WarehouseID = tr.DestinationWarehouseID
		in.Kind = entity.MovementKindTransferIN
		in.UnitCost = outMov.UnitCost
		// Un lote destino por cada lote consumido en origen, al mismo costo
		inMov, err := uc.poster.inboundLots(ctx, repos, in, allocs)
		if err != nil {
			return nil, nil, err
		}
		movs = append(movs, outMov, inMov)
	}

	tr.Status = entity.DocumentStatusPosted
	tr.PostedAt = &now
	tr.PostedByID = userID
	tr.UpdatedAt = now
	if err := repos.Transfers.Update(ctx, tr); err != nil {
		return nil, nil, err
	}
	return tr, movs, nil
}

func (uc *TransferUseCase) afterPost(ctx context.Context, tr *entity.InventoryTransfer, movs []*entity.InventoryMovement, lookup *productLookup, userID string) {
	uc.deps.Logger.Info().
		Str("transfer_id", tr.ID).
		Str("transfer_number", tr.TransferNumber).
		Int("movements", len(movs)).
		Msg("traslado posteado")
	uc.deps.audit(ctx, userID, AuditActionPost, transferResource, tr.ID, map[string]any{
		"transfer_number": tr.TransferNumber,
		"movements":       len(movs),
	})
	uc.deps.publishPosted(ctx, transferResource, tr.ID, tr.TransferNumber, userID, *tr.PostedAt, movs)
	if uc.deps.Slips != nil {
		uc.deps.Slips.archiveTransfer(ctx, tr, lookup.products())
	}
}

// Cancel anula un traslado en DRAFT. POSTED y CANCELLED son terminales.
func (uc *TransferUseCase) Cancel(ctx context.Context, id, userID string) (*dto.TransferResponse, error) {
	var tr *entity.InventoryTransfer
	err := uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		tr, err = repos.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.NewNotFoundError("traslado", id)
		}
		if !tr.IsDraft() {
			return domain.NewInvalidStateError("traslado", tr.TransferNumber, tr.Status, "cancelar")
		}
		now := uc.deps.Now()
		tr.Status = entity.DocumentStatusCancelled
		tr.CancelledAt = &now
		tr.UpdatedAt = now
		return repos.Transfers.Update(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, userID, AuditActionCancel, transferResource, tr.ID, map[string]any{
		"transfer_number": tr.TransferNumber,
	})
	return toTransferResponse(tr), nil
}

// Get devuelve un traslado por ID.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	tr, err := uc.deps.Repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.NewNotFoundError("traslado", id)
	}
	return toTransferResponse(tr), nil
}

// List lista traslados con filtros; WarehouseID coincide con origen o destino.
func (uc *TransferUseCase) List(ctx context.Context, f dto.DocumentFilters) (*dto.TransferListResponse, error) {
	f.DefaultPage()
	list, err := uc.deps.Repos.Transfers.List(ctx, repository.DocumentFilter{
		Status:      f.Status,
		WarehouseID: f.WarehouseID,
		BranchID:    f.BranchID,
		From:        f.From,
		To:          f.To,
		Limit:       f.Limit,
		Offset:      f.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

func (uc *TransferUseCase) validateWarehouses(ctx context.Context, sourceID, destID string) (*entity.Warehouse, *entity.Warehouse, error) {
	if sourceID != "" && sourceID == destID {
		return nil, nil, domain.NewValidationError("destination_warehouse_id", "la bodega destino debe ser distinta a la de origen")
	}
	src, err := uc.deps.loadWarehouse(ctx, sourceID, "source_warehouse_id")
	if err != nil {
		return nil, nil, err
	}
	dst, err := uc.deps.loadWarehouse(ctx, destID, "destination_warehouse_id")
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func (uc *TransferUseCase) validateItems(ctx context.Context, transferID string, in []dto.TransferItemRequest) ([]entity.InventoryTransferItem, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("items", "el traslado debe tener al menos una línea")
	}
	lookup := newProductLookup(uc.deps.Catalog)
	seen := make(map[string]struct{}, len(in))
	items := make([]entity.InventoryTransferItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return nil, domain.NewValidationError(field+".product_id", "requerido")
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, domain.NewValidationError(field+".product_id", fmt.Sprintf("producto %s duplicado en el documento", it.ProductID))
		}
		seen[it.ProductID] = struct{}{}
		if !it.Quantity.IsPositive() {
			return nil, domain.NewValidationError(field+".quantity", "la cantidad debe ser mayor a cero")
		}
		pu, err := lookup.get(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		uom := strings.TrimSpace(it.UOM)
		if uom == "" {
			uom = pu.Product.BaseUOM
		}
		if _, err := inv.ToBase(decimal.NewFromInt(1), uom, pu.Product, pu.UOMs); err != nil {
			return nil, err
		}
		items = append(items, entity.InventoryTransferItem{
			ID:         uuid.New().String(),
			TransferID: transferID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UOM:        uom,
		})
	}
	return items, nil
}

func (uc *TransferUseCase) approvalPayload(ctx context.Context, tr *entity.InventoryTransfer) (ApprovalPayload, error) {
	lookup := newProductLookup(uc.deps.Catalog)
	p := ApprovalPayload{
		DocumentID:             tr.ID,
		DocumentNumber:         tr.TransferNumber,
		WarehouseID:            tr.SourceWarehouseID,
		DestinationWarehouseID: tr.DestinationWarehouseID,
		Reason:                 tr.Reason,
		TotalBaseQuantity:      decimal.Zero,
		Items:                  make([]ApprovalPayloadItem, 0, len(tr.Items)),
	}
	for _, it := range tr.Items {
		pu, err := lookup.get(ctx, it.ProductID)
		if err != nil {
			return p, err
		}
		conv, err := inv.ToBase(it.Quantity, it.UOM, pu.Product, pu.UOMs)
		if err != nil {
			return p, err
		}
		p.Items = append(p.Items, ApprovalPayloadItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UOM:          it.UOM,
			BaseQuantity: conv.Quantity,
		})
		p.TotalBaseQuantity = p.TotalBaseQuantity.Add(conv.Quantity)
	}
	return p, nil
}
