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

const adjustmentResource = entity.ReferenceTypeAdjustment

// AdjustmentUseCase flujo de ajustes de inventario: DRAFT editable -> POSTED (terminal).
// El posteo pasa por la política de aprobación y se ejecuta en una sola transacción.
type AdjustmentUseCase struct {
	deps   Dependencies
	poster stockPoster
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(deps Dependencies) *AdjustmentUseCase {
	deps = deps.withDefaults()
	return &AdjustmentUseCase{
		deps:   deps,
		poster: stockPoster{ledger: deps.Ledger, batches: deps.Batches},
	}
}

// Create valida y guarda un ajuste en DRAFT con número ADJ-YYYYMMDD-NNNN.
func (uc *AdjustmentUseCase) Create(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	wh, err := uc.deps.loadWarehouse(ctx, in.WarehouseID, "warehouse_id")
	if err != nil {
		return nil, err
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = wh.BranchID
	} else if branchID != wh.BranchID {
		return nil, domain.NewValidationError("branch_id", "la bodega no pertenece a la sucursal indicada")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo es obligatorio")
	}

	id := uuid.New().String()
	items, err := uc.validateItems(ctx, newProductLookup(uc.deps.Catalog), id, in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	adjDate := now
	if in.AdjustmentDate != nil {
		adjDate = in.AdjustmentDate.UTC()
	}
	adj := &entity.InventoryAdjustment{
		ID:              id,
		BranchID:        branchID,
		WarehouseID:     wh.ID,
		Status:          entity.DocumentStatusDraft,
		Reason:          reason,
		ReferenceNumber: in.ReferenceNumber,
		AdjustmentDate:  adjDate,
		CreatedByID:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
	}
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		number, err := documentNumber(ctx, repos.Sequences, "ADJ", now)
		if err != nil {
			return err
		}
		adj.AdjustmentNumber = number
		return repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, userID, AuditActionCreate, adjustmentResource, adj.ID, map[string]any{
		"adjustment_number": adj.AdjustmentNumber,
		"warehouse_id":      adj.WarehouseID,
		"items":             len(adj.Items),
	})
	return toAdjustmentResponse(adj), nil
}

// Update modifica un ajuste en DRAFT. Items nil conserva las líneas.
func (uc *AdjustmentUseCase) Update(ctx context.Context, id, userID string, in dto.UpdateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	var items []entity.InventoryAdjustmentItem
	if in.Items != nil {
		var err error
		items, err = uc.validateItems(ctx, newProductLookup(uc.deps.Catalog), id, in.Items)
		if err != nil {
			return nil, err
		}
	}
	if in.Reason != nil && strings.TrimSpace(*in.Reason) == "" {
		return nil, domain.NewValidationError("reason", "el motivo es obligatorio")
	}

	var adj *entity.InventoryAdjustment
	err := uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		adj, err = repos.Adjustments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.NewNotFoundError("ajuste", id)
		}
		if !adj.IsDraft() {
			return domain.NewInvalidStateError("ajuste", adj.AdjustmentNumber, adj.Status, "editar")
		}
		if in.Reason != nil {
			adj.Reason = strings.TrimSpace(*in.Reason)
		}
		if in.ReferenceNumber != nil {
			adj.ReferenceNumber = *in.ReferenceNumber
		}
		if in.AdjustmentDate != nil {
			adj.AdjustmentDate = in.AdjustmentDate.UTC()
		}
		if items != nil {
			adj.Items = items
		}
		adj.UpdatedAt = uc.deps.Now()
		return repos.Adjustments.Update(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, userID, AuditActionUpdate, adjustmentResource, adj.ID, map[string]any{
		"adjustment_number": adj.AdjustmentNumber,
		"items_replaced":    items != nil,
	})
	return toAdjustmentResponse(adj), nil
}

// Post postea un ajuste. Si la política exige aprobación, crea (o reutiliza) la solicitud y el
// documento queda en DRAFT. Cualquier error de una línea revierte todo el posteo.
func (uc *AdjustmentUseCase) Post(ctx context.Context, id, userID string) (*dto.PostAdjustmentResponse, error) {
	start := time.Now()
	adj, err := uc.deps.Repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NewNotFoundError("ajuste", id)
	}
	if !adj.IsDraft() {
		uc.deps.Metrics.ObservePosting(adjustmentResource, OutcomeFailed, time.Since(start))
		return nil, domain.NewInvalidStateError("ajuste", adj.AdjustmentNumber, adj.Status, "postear")
	}

	if uc.deps.Policy != nil {
		payload, err := uc.approvalPayload(ctx, adj)
		if err != nil {
			return nil, err
		}
		required, err := uc.deps.Policy.IsApprovalRequired(ctx, entity.ApprovalKindAdjustment, payload)
		if err != nil {
			return nil, fmt.Errorf("approval policy: %w", err)
		}
		if required {
			if uc.deps.Approvals == nil {
				return nil, fmt.Errorf("approval requester not configured")
			}
			req, err := uc.deps.Approvals.CreateApprovalRequest(ctx, entity.ApprovalKindAdjustment, adj.ID, payload, userID, adj.Reason)
			if err != nil {
				return nil, err
			}
			uc.deps.Metrics.ObservePosting(adjustmentResource, OutcomePendingApproval, time.Since(start))
			uc.deps.Logger.Info().Str("adjustment_id", adj.ID).Str("approval_id", req.ID).Msg("ajuste pendiente de aprobación")
			return &dto.PostAdjustmentResponse{Adjustment: toAdjustmentResponse(adj), ApprovalRequest: toApprovalResponse(req)}, nil
		}
	}

	var (
		posted *entity.InventoryAdjustment
		movs   []*entity.InventoryMovement
		lookup = newProductLookup(uc.deps.Catalog)
	)
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		posted, movs, err = uc.postInTx(ctx, repos, lookup, id, userID)
		return err
	})
	if err != nil {
		uc.deps.Metrics.ObservePosting(adjustmentResource, OutcomeFailed, time.Since(start))
		uc.deps.Logger.Warn().Err(err).Str("adjustment_id", id).Msg("posteo de ajuste fallido")
		return nil, err
	}
	uc.deps.Metrics.ObservePosting(adjustmentResource, OutcomePosted, time.Since(start))
	uc.afterPost(ctx, posted, movs, lookup, userID)
	return &dto.PostAdjustmentResponse{Adjustment: toAdjustmentResponse(posted)}, nil
}

// postApproved postea dentro de la transacción del aprobador, sin pasar por la política.
func (uc *AdjustmentUseCase) postApproved(ctx context.Context, repos TxRepos, entityID, reviewerID string) (func(context.Context), error) {
	lookup := newProductLookup(uc.deps.Catalog)
	posted, movs, err := uc.postInTx(ctx, repos, lookup, entityID, reviewerID)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) {
		uc.deps.Metrics.ObservePosting(adjustmentResource, OutcomePosted, 0)
		uc.afterPost(ctx, posted, movs, lookup, reviewerID)
	}, nil
}

func (uc *AdjustmentUseCase) postInTx(ctx context.Context, repos TxRepos, lookup *productLookup, id, userID string) (*entity.InventoryAdjustment, []*entity.InventoryMovement, error) {
	adj, err := repos.Adjustments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if adj == nil {
		return nil, nil, domain.NewNotFoundError("ajuste", id)
	}
	if !adj.IsDraft() {
		return nil, nil, domain.NewInvalidStateError("ajuste", adj.AdjustmentNumber, adj.Status, "postear")
	}

	now := uc.deps.Now()
	movs := make([]*entity.InventoryMovement, 0, len(adj.Items))
	for i := range adj.Items {
		item := &adj.Items[i]
		pu, err := lookup.get(ctx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		conv, err := inv.ToBase(item.Quantity, item.UOM, pu.Product, pu.UOMs)
		if err != nil {
			return nil, nil, err
		}
		stock, err := repos.Stock.GetForUpdate(ctx, item.ProductID, adj.WarehouseID)
		if err != nil {
			return nil, nil, err
		}
		current := stock.Quantity

		var delta, actual decimal.Decimal
		switch item.Type {
		case entity.AdjustmentTypeAbsolute:
			actual = conv.Quantity
			delta = actual.Sub(current)
		default:
			delta = conv.Quantity
			actual = current.Add(delta)
		}
		system := current
		item.SystemQuantity = &system
		item.ActualQuantity = &actual

		in := MovementInput{
			ProductID:     item.ProductID,
			WarehouseID:   adj.WarehouseID,
			Quantity:      delta.Abs(),
			UOM:           item.UOM,
			Factor:        conv.Factor,
			ReferenceID:   adj.ID,
			ReferenceType: entity.ReferenceTypeAdjustment,
			Reason:        adj.Reason,
			UserID:        userID,
			At:            now,
		}
		switch {
		case delta.IsPositive():
			cost, err := uc.deps.Batches.AverageCost(ctx, repos, item.ProductID, adj.WarehouseID, pu.Product.Cost)
			if err != nil {
				return nil, nil, err
			}
			in.Kind = entity.MovementKindAdjustmentIN
			in.UnitCost = cost
			mov, err := uc.poster.inbound(ctx, repos, in)
			if err != nil {
				return nil, nil, err
			}
			movs = append(movs, mov)
		case delta.IsNegative():
			in.Kind = entity.MovementKindAdjustmentOUT
			mov, _, err := uc.poster.outbound(ctx, repos, in, pu.Product.Cost)
			if err != nil {
				return nil, nil, err
			}
			movs = append(movs, mov)
		}
	}

	adj.Status = entity.DocumentStatusPosted
	adj.PostedAt = &now
	adj.PostedByID = userID
	adj.UpdatedAt = now
	if err := repos.Adjustments.Update(ctx, adj); err != nil {
		return nil, nil, err
	}
	return adj, movs, nil
}

func (uc *AdjustmentUseCase) afterPost(ctx context.Context, adj *entity.InventoryAdjustment, movs []*entity.InventoryMovement, lookup *productLookup, userID string) {
	uc.deps.Logger.Info().
		Str("adjustment_id", adj.ID).
		Str("adjustment_number", adj.AdjustmentNumber).
		Int("movements", len(movs)).
		Msg("ajuste posteado")
	uc.deps.audit(ctx, userID, AuditActionPost, adjustmentResource, adj.ID, map[string]any{
		"adjustment_number": adj.AdjustmentNumber,
		"movements":         len(movs),
	})
	uc.deps.publishPosted(ctx, adjustmentResource, adj.ID, adj.AdjustmentNumber, userID, *adj.PostedAt, movs)
	if uc.deps.Slips != nil {
		uc.deps.Slips.archiveAdjustment(ctx, adj, lookup.products())
	}
}

// MassPostDrafts postea cada ajuste en DRAFT de forma independiente; los fallos se acumulan
// en el resumen y no detienen el ciclo.
func (uc *AdjustmentUseCase) MassPostDrafts(ctx context.Context, userID string) (*dto.MassPostResponse, error) {
	drafts, err := uc.deps.Repos.Adjustments.List(ctx, repository.DocumentFilter{Status: entity.DocumentStatusDraft})
	if err != nil {
		return nil, err
	}
	out := &dto.MassPostResponse{Total: len(drafts), Errors: []dto.MassPostError{}}
	for _, d := range drafts {
		res, err := uc.Post(ctx, d.ID, userID)
		switch {
		case err != nil:
			out.Failed++
			out.Errors = append(out.Errors, dto.MassPostError{
				AdjustmentID:     d.ID,
				AdjustmentNumber: d.AdjustmentNumber,
				Error:            err.Error(),
			})
		case res.ApprovalRequest != nil:
			out.PendingApproval++
		default:
			out.Succeeded++
		}
	}
	uc.deps.Logger.Info().
		Int("total", out.Total).Int("succeeded", out.Succeeded).
		Int("pending_approval", out.PendingApproval).Int("failed", out.Failed).
		Msg("posteo masivo de ajustes")
	return out, nil
}

// Get devuelve un ajuste por ID.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*dto.AdjustmentResponse, error) {
	adj, err := uc.deps.Repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NewNotFoundError("ajuste", id)
	}
	return toAdjustmentResponse(adj), nil
}

// List lista ajustes con filtros y paginación.
func (uc *AdjustmentUseCase) List(ctx context.Context, f dto.DocumentFilters) (*dto.AdjustmentListResponse, error) {
	f.DefaultPage()
	list, err := uc.deps.Repos.Adjustments.List(ctx, repository.DocumentFilter{
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
	items := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAdjustmentResponse(a))
	}
	return &dto.AdjustmentListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// Copy crea un ajuste nuevo en DRAFT con las mismas líneas.
func (uc *AdjustmentUseCase) Copy(ctx context.Context, id, userID string) (*dto.AdjustmentResponse, error) {
	src, err := uc.deps.Repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, domain.NewNotFoundError("ajuste", id)
	}
	items := make([]dto.AdjustmentItemRequest, 0, len(src.Items))
	for _, it := range src.Items {
		items = append(items, dto.AdjustmentItemRequest{ProductID: it.ProductID, Quantity: it.Quantity, UOM: it.UOM, Type: it.Type})
	}
	return uc.Create(ctx, userID, dto.CreateAdjustmentRequest{
		WarehouseID:     src.WarehouseID,
		BranchID:        src.BranchID,
		Reason:          fmt.Sprintf("Copia de %s: %s", src.AdjustmentNumber, src.Reason),
		ReferenceNumber: src.ReferenceNumber,
		Items:           items,
	})
}

// Reverse crea un ajuste DRAFT RELATIVE en unidad base que deshace el efecto de un ajuste POSTED.
// Las líneas sin efecto (delta cero) se omiten.
func (uc *AdjustmentUseCase) Reverse(ctx context.Context, id, userID string) (*dto.AdjustmentResponse, error) {
	src, err := uc.deps.Repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, domain.NewNotFoundError("ajuste", id)
	}
	if src.Status != entity.DocumentStatusPosted {
		return nil, domain.NewInvalidStateError("ajuste", src.AdjustmentNumber, src.Status, "revertir")
	}
	lookup := newProductLookup(uc.deps.Catalog)
	items := make([]dto.AdjustmentItemRequest, 0, len(src.Items))
	for _, it := range src.Items {
		if it.SystemQuantity == nil || it.ActualQuantity == nil {
			continue
		}
		delta := it.ActualQuantity.Sub(*it.SystemQuantity)
		if delta.IsZero() {
			continue
		}
		pu, err := lookup.get(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.AdjustmentItemRequest{
			ProductID: it.ProductID,
			Quantity:  delta.Neg(),
			UOM:       pu.Product.BaseUOM,
			Type:      entity.AdjustmentTypeRelative,
		})
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "el ajuste no tiene efecto que revertir")
	}
	return uc.Create(ctx, userID, dto.CreateAdjustmentRequest{
		WarehouseID:     src.WarehouseID,
		BranchID:        src.BranchID,
		Reason:          fmt.Sprintf("Reversión de %s", src.AdjustmentNumber),
		ReferenceNumber: src.AdjustmentNumber,
		Items:           items,
	})
}

// validateItems valida las líneas y las convierte a entidades con IDs nuevos.
func (uc *AdjustmentUseCase) validateItems(ctx context.Context, lookup *productLookup, adjustmentID string, in []dto.AdjustmentItemRequest) ([]entity.InventoryAdjustmentItem, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("items", "el ajuste debe tener al menos una línea")
	}
	seen := make(map[string]struct{}, len(in))
	items := make([]entity.InventoryAdjustmentItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return nil, domain.NewValidationError(field+".product_id", "requerido")
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, domain.NewValidationError(field+".product_id", fmt.Sprintf("producto %s duplicado en el documento", it.ProductID))
		}
		seen[it.ProductID] = struct{}{}

		typ := strings.ToUpper(strings.TrimSpace(it.Type))
		switch typ {
		case entity.AdjustmentTypeRelative:
			if it.Quantity.IsZero() {
				return nil, domain.NewValidationError(field+".quantity", "un ajuste relativo no puede ser cero")
			}
		case entity.AdjustmentTypeAbsolute:
			if it.Quantity.IsNegative() {
				return nil, domain.NewValidationError(field+".quantity", "un conteo absoluto no puede ser negativo")
			}
		default:
			return nil, domain.NewValidationError(field+".type", fmt.Sprintf("tipo %q inválido (ABSOLUTE o RELATIVE)", it.Type))
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
		items = append(items, entity.InventoryAdjustmentItem{
			ID:           uuid.New().String(),
			AdjustmentID: adjustmentID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UOM:          uom,
			Type:         typ,
		})
	}
	return items, nil
}

// approvalPayload resume el ajuste para la política. BaseQuantity es el delta estimado
// contra el saldo actual (sin bloqueo).
func (uc *AdjustmentUseCase) approvalPayload(ctx context.Context, adj *entity.InventoryAdjustment) (ApprovalPayload, error) {
	lookup := newProductLookup(uc.deps.Catalog)
	p := ApprovalPayload{
		DocumentID:        adj.ID,
		DocumentNumber:    adj.AdjustmentNumber,
		WarehouseID:       adj.WarehouseID,
		Reason:            adj.Reason,
		TotalBaseQuantity: decimal.Zero,
		Items:             make([]ApprovalPayloadItem, 0, len(adj.Items)),
	}
	for _, it := range adj.Items {
		pu, err := lookup.get(ctx, it.ProductID)
		if err != nil {
			return p, err
		}
		conv, err := inv.ToBase(it.Quantity, it.UOM, pu.Product, pu.UOMs)
		if err != nil {
			return p, err
		}
		base := conv.Quantity
		if it.Type == entity.AdjustmentTypeAbsolute {
			stock, err := uc.deps.Repos.Stock.Get(ctx, it.ProductID, adj.WarehouseID)
			if err != nil {
				return p, err
			}
			if stock != nil {
				base = base.Sub(stock.Quantity)
			}
		}
		p.Items = append(p.Items, ApprovalPayloadItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UOM:          it.UOM,
			Type:         it.Type,
			BaseQuantity: base,
		})
		p.TotalBaseQuantity = p.TotalBaseQuantity.Add(base.Abs())
	}
	return p, nil
}
