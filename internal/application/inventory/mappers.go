package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func toAdjustmentResponse(a *entity.InventoryAdjustment) *dto.AdjustmentResponse {
	if a == nil {
		return nil
	}
	items := make([]dto.AdjustmentItemResponse, 0, len(a.Items))
	for _, it := range a.Items {
		items = append(items, dto.AdjustmentItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UOM:            it.UOM,
			Type:           it.Type,
			SystemQuantity: it.SystemQuantity,
			ActualQuantity: it.ActualQuantity,
		})
	}
	return &dto.AdjustmentResponse{
		ID:               a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		BranchID:         a.BranchID,
		WarehouseID:      a.WarehouseID,
		Status:           a.Status,
		Reason:           a.Reason,
		ReferenceNumber:  a.ReferenceNumber,
		AdjustmentDate:   a.AdjustmentDate,
		CreatedByID:      a.CreatedByID,
		PostedAt:         a.PostedAt,
		PostedByID:       a.PostedByID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Items:            items,
	}
}

func toTransferResponse(t *entity.InventoryTransfer) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UOM:       it.UOM,
		})
	}
	return &dto.TransferResponse{
		ID:                     t.ID,
		TransferNumber:         t.TransferNumber,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		BranchID:               t.BranchID,
		Status:                 t.Status,
		Reason:                 t.Reason,
		TransferDate:           t.TransferDate,
		CreatedByID:            t.CreatedByID,
		PostedAt:               t.PostedAt,
		PostedByID:             t.PostedByID,
		CancelledAt:            t.CancelledAt,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
		Items:                  items,
	}
}

func toApprovalResponse(r *entity.ApprovalRequest) *dto.ApprovalResponse {
	if r == nil {
		return nil
	}
	return &dto.ApprovalResponse{
		ID:            r.ID,
		Type:          string(r.Type),
		EntityID:      r.EntityID,
		Payload:       r.Payload,
		Status:        r.Status,
		RequestedByID: r.RequestedByID,
		Reason:        r.Reason,
		ReviewedByID:  r.ReviewedByID,
		ReviewNote:    r.ReviewNote,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		WarehouseID:      m.WarehouseID,
		Kind:             string(m.Kind),
		Quantity:         m.Quantity,
		SignedQuantity:   m.SignedQuantity(),
		UOM:              m.UOM,
		ConversionFactor: m.ConversionFactor,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		BalanceAfter:     m.BalanceAfter,
		ReferenceID:      m.ReferenceID,
		ReferenceType:    m.ReferenceType,
		Reason:           m.Reason,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

func toBatchResponse(b entity.InventoryBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		WarehouseID:     b.WarehouseID,
		InitialQuantity: b.InitialQuantity,
		Quantity:        b.Quantity,
		UnitCost:        b.UnitCost,
		ReferenceID:     b.ReferenceID,
		ReferenceType:   b.ReferenceType,
		CreatedAt:       b.CreatedAt,
	}
}
