package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

const approvalResource = "APPROVAL_REQUEST"

// approvalHandler postea el documento aprobado dentro de la transacción de la aprobación.
// La función devuelta corre después del commit (auditoría, eventos, archivo).
type approvalHandler interface {
	postApproved(ctx context.Context, repos TxRepos, entityID, reviewerID string) (func(context.Context), error)
}

// ApprovalUseCase solicitudes de aprobación: crea/reutiliza solicitudes y procesa la señal
// de aprobación (postea el documento) o rechazo (el documento sigue en DRAFT).
type ApprovalUseCase struct {
	deps     Dependencies
	handlers map[entity.ApprovalKind]approvalHandler
}

// NewApprovalUseCase construye el caso de uso. Bind conecta los flujos que se postean al aprobar.
func NewApprovalUseCase(deps Dependencies) *ApprovalUseCase {
	return &ApprovalUseCase{
		deps:     deps.withDefaults(),
		handlers: make(map[entity.ApprovalKind]approvalHandler),
	}
}

// Bind registra los flujos de ajustes y traslados.
func (uc *ApprovalUseCase) Bind(adjustments *AdjustmentUseCase, transfers *TransferUseCase) {
	if adjustments != nil {
		uc.handlers[entity.ApprovalKindAdjustment] = adjustments
	}
	if transfers != nil {
		uc.handlers[entity.ApprovalKindTransfer] = transfers
	}
}

var _ ApprovalRequester = (*ApprovalUseCase)(nil)

// CreateApprovalRequest reutiliza la solicitud PENDING del documento o crea una nueva.
func (uc *ApprovalUseCase) CreateApprovalRequest(ctx context.Context, kind entity.ApprovalKind, entityID string, payload ApprovalPayload, requestedBy, reason string) (*entity.ApprovalRequest, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal approval payload: %w", err)
	}
	var (
		req     *entity.ApprovalRequest
		created bool
	)
	err = uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		existing, err := repos.Approvals.FindPending(ctx, kind, entityID)
		if err != nil {
			return err
		}
		if existing != nil {
			req = existing
			return nil
		}
		now := uc.deps.Now()
		req = &entity.ApprovalRequest{
			ID:            uuid.New().String(),
			Type:          kind,
			EntityID:      entityID,
			Payload:       raw,
			Status:        entity.ApprovalStatusPending,
			RequestedByID: requestedBy,
			Reason:        reason,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created = true
		return repos.Approvals.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if created {
		uc.deps.audit(ctx, requestedBy, AuditActionCreate, approvalResource, req.ID, map[string]any{
			"type":      kind,
			"entity_id": entityID,
		})
	}
	return req, nil
}

// Approve marca la solicitud APPROVED y postea el documento en la misma transacción.
// Si el posteo falla la solicitud sigue PENDING.
func (uc *ApprovalUseCase) Approve(ctx context.Context, requestID, reviewerID, note string) (*dto.ApprovalResponse, error) {
	var (
		req   *entity.ApprovalRequest
		after func(context.Context)
	)
	err := uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		req, err = uc.lockPending(ctx, repos, requestID, "aprobar")
		if err != nil {
			return err
		}
		h, ok := uc.handlers[req.Type]
		if !ok {
			return domain.NewValidationError("type", fmt.Sprintf("tipo de aprobación %q sin flujo asociado", req.Type))
		}
		if after, err = h.postApproved(ctx, repos, req.EntityID, reviewerID); err != nil {
			return err
		}
		return uc.review(ctx, repos, req, entity.ApprovalStatusApproved, reviewerID, note)
	})
	if err != nil {
		return nil, err
	}
	if after != nil {
		after(ctx)
	}
	uc.deps.audit(ctx, reviewerID, AuditActionApprove, approvalResource, req.ID, map[string]any{
		"type":      req.Type,
		"entity_id": req.EntityID,
		"note":      note,
	})
	return toApprovalResponse(req), nil
}

// Reject marca la solicitud REJECTED; el documento queda en DRAFT.
func (uc *ApprovalUseCase) Reject(ctx context.Context, requestID, reviewerID, note string) (*dto.ApprovalResponse, error) {
	var req *entity.ApprovalRequest
	err := uc.deps.TxRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		req, err = uc.lockPending(ctx, repos, requestID, "rechazar")
		if err != nil {
			return err
		}
		return uc.review(ctx, repos, req, entity.ApprovalStatusRejected, reviewerID, note)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.audit(ctx, reviewerID, AuditActionReject, approvalResource, req.ID, map[string]any{
		"type":      req.Type,
		"entity_id": req.EntityID,
		"note":      note,
	})
	return toApprovalResponse(req), nil
}

// Get devuelve una solicitud por ID.
func (uc *ApprovalUseCase) Get(ctx context.Context, id string) (*dto.ApprovalResponse, error) {
	req, err := uc.deps.Repos.Approvals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NewNotFoundError("solicitud de aprobación", id)
	}
	return toApprovalResponse(req), nil
}

// List lista solicitudes por estado (vacío = todas).
func (uc *ApprovalUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.ApprovalListResponse, error) {
	page.DefaultPage()
	list, err := uc.deps.Repos.Approvals.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ApprovalResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toApprovalResponse(r))
	}
	return &dto.ApprovalListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func (uc *ApprovalUseCase) lockPending(ctx context.Context, repos TxRepos, id, action string) (*entity.ApprovalRequest, error) {
	req, err := repos.Approvals.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NewNotFoundError("solicitud de aprobación", id)
	}
	if req.Status != entity.ApprovalStatusPending {
		return nil, domain.NewInvalidStateError("solicitud de aprobación", id, req.Status, action)
	}
	return req, nil
}

func (uc *ApprovalUseCase) review(ctx context.Context, repos TxRepos, req *entity.ApprovalRequest, status, reviewerID, note string) error {
	req.Status = status
	req.ReviewedByID = reviewerID
	req.ReviewNote = note
	req.UpdatedAt = uc.deps.Now()
	return repos.Approvals.Update(ctx, req)
}
