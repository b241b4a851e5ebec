package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentItemRequest línea de ajuste en la unidad ingresada.
// ABSOLUTE: Quantity es el conteo real (>= 0). RELATIVE: Quantity es un delta con signo (!= 0).
type AdjustmentItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UOM       string          `json:"uom"`
	Type      string          `json:"type" validate:"oneof=ABSOLUTE RELATIVE"`
}

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
type CreateAdjustmentRequest struct {
	WarehouseID     string                  `json:"warehouse_id" validate:"required"`
	BranchID        string                  `json:"branch_id"`
	Reason          string                  `json:"reason" validate:"required"`
	ReferenceNumber string                  `json:"reference_number"`
	AdjustmentDate  *time.Time              `json:"adjustment_date"`
	Items           []AdjustmentItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateAdjustmentRequest body para PUT /api/inventory/adjustments/:id (solo DRAFT).
// Items nil conserva las líneas actuales.
type UpdateAdjustmentRequest struct {
	Reason          *string                 `json:"reason"`
	ReferenceNumber *string                 `json:"reference_number"`
	AdjustmentDate  *time.Time              `json:"adjustment_date"`
	Items           []AdjustmentItemRequest `json:"items"`
}

// AdjustmentItemResponse línea de ajuste. SystemQuantity/ActualQuantity se llenan al postear.
type AdjustmentItemResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UOM            string           `json:"uom"`
	Type           string           `json:"type"`
	SystemQuantity *decimal.Decimal `json:"system_quantity,omitempty"`
	ActualQuantity *decimal.Decimal `json:"actual_quantity,omitempty"`
}

// AdjustmentResponse documento de ajuste.
type AdjustmentResponse struct {
	ID               string                   `json:"id"`
	AdjustmentNumber string                   `json:"adjustment_number"`
	BranchID         string                   `json:"branch_id"`
	WarehouseID      string                   `json:"warehouse_id"`
	Status           string                   `json:"status"`
	Reason           string                   `json:"reason"`
	ReferenceNumber  string                   `json:"reference_number,omitempty"`
	AdjustmentDate   time.Time                `json:"adjustment_date"`
	CreatedByID      string                   `json:"created_by_id"`
	PostedAt         *time.Time               `json:"posted_at,omitempty"`
	PostedByID       string                   `json:"posted_by_id,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Items            []AdjustmentItemResponse `json:"items"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// PostAdjustmentResponse resultado de postear. Si ApprovalRequest != nil el documento sigue en DRAFT.
type PostAdjustmentResponse struct {
	Adjustment      *AdjustmentResponse `json:"adjustment"`
	ApprovalRequest *ApprovalResponse   `json:"approval_request,omitempty"`
}

// MassPostResponse resumen del posteo masivo de borradores.
type MassPostResponse struct {
	Total           int             `json:"total"`
	Succeeded       int             `json:"succeeded"`
	PendingApproval int             `json:"pending_approval"`
	Failed          int             `json:"failed"`
	Errors          []MassPostError `json:"errors"`
}

// MassPostError fallo de un documento dentro del posteo masivo.
type MassPostError struct {
	AdjustmentID     string `json:"adjustment_id"`
	AdjustmentNumber string `json:"adjustment_number"`
	Error            string `json:"error"`
}
