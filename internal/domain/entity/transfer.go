package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTransfer documento de traslado entre dos bodegas (DRAFT -> POSTED | CANCELLED).
type InventoryTransfer struct {
	ID                     string
	TransferNumber         string // TRF-YYYYMMDD-NNNN
	SourceWarehouseID      string
	DestinationWarehouseID string
	BranchID               string
	Status                 string
	Reason                 string
	TransferDate           time.Time
	CreatedByID            string
	PostedAt               *time.Time
	PostedByID             string
	CancelledAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Items                  []InventoryTransferItem
}

// InventoryTransferItem línea de traslado en la unidad ingresada. Única por (TransferID, ProductID).
type InventoryTransferItem struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   decimal.Decimal
	UOM        string
}

// IsDraft indica si el traslado aún es editable.
func (t *InventoryTransfer) IsDraft() bool { return t.Status == DocumentStatusDraft }
