package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItemRequest línea de traslado (cantidad > 0 en la unidad ingresada).
type TransferItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UOM       string          `json:"uom"`
}

// CreateTransferRequest body para POST /api/inventory/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required"`
	BranchID               string                `json:"branch_id"`
	Reason                 string                `json:"reason"`
	TransferDate           *time.Time            `json:"transfer_date"`
	Items                  []TransferItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateTransferRequest body para PUT /api/inventory/transfers/:id (solo DRAFT).
type UpdateTransferRequest struct {
	SourceWarehouseID      *string               `json:"source_warehouse_id"`
	DestinationWarehouseID *string               `json:"destination_warehouse_id"`
	Reason                 *string               `json:"reason"`
	TransferDate           *time.Time            `json:"transfer_date"`
	Items                  []TransferItemRequest `json:"items"`
}

// TransferItemResponse línea de traslado.
type TransferItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UOM       string          `json:"uom"`
}

// TransferResponse documento de traslado.
type TransferResponse struct {
	ID                     string                 `json:"id"`
	TransferNumber         string                 `json:"transfer_number"`
	SourceWarehouseID      string                 `json:"source_warehouse_id"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id"`
	BranchID               string                 `json:"branch_id"`
	Status                 string                 `json:"status"`
	Reason                 string                 `json:"reason,omitempty"`
	TransferDate           time.Time              `json:"transfer_date"`
	CreatedByID            string                 `json:"created_by_id"`
	PostedAt               *time.Time             `json:"posted_at,omitempty"`
	PostedByID             string                 `json:"posted_by_id,omitempty"`
	CancelledAt            *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	Items                  []TransferItemResponse `json:"items"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PostTransferResponse resultado de postear un traslado.
type PostTransferResponse struct {
	Transfer        *TransferResponse `json:"transfer"`
	ApprovalRequest *ApprovalResponse `json:"approval_request,omitempty"`
}

// DocumentFilters filtros de listados de ajustes y traslados.
type DocumentFilters struct {
	Status      string     `query:"status"`
	WarehouseID string     `query:"warehouse_id"`
	BranchID    string     `query:"branch_id"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}
