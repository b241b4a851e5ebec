package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de documentos de inventario.
const (
	DocumentStatusDraft     = "DRAFT"
	DocumentStatusPosted    = "POSTED"
	DocumentStatusCancelled = "CANCELLED"
)

// Tipos de línea de ajuste.
const (
	AdjustmentTypeAbsolute = "ABSOLUTE" // la cantidad es el conteo real
	AdjustmentTypeRelative = "RELATIVE" // la cantidad es un delta con signo
)

// InventoryAdjustment documento de ajuste (DRAFT -> POSTED, terminal).
type InventoryAdjustment struct {
	ID               string
	AdjustmentNumber string // ADJ-YYYYMMDD-NNNN
	BranchID         string
	WarehouseID      string
	Status           string
	Reason           string
	ReferenceNumber  string
	AdjustmentDate   time.Time
	CreatedByID      string
	PostedAt         *time.Time
	PostedByID       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []InventoryAdjustmentItem
}

// InventoryAdjustmentItem línea de ajuste. Única por (AdjustmentID, ProductID).
// SystemQuantity y ActualQuantity se completan al postear (unidad base).
type InventoryAdjustmentItem struct {
	ID             string
	AdjustmentID   string
	ProductID      string
	Quantity       decimal.Decimal
	UOM            string
	Type           string
	SystemQuantity *decimal.Decimal
	ActualQuantity *decimal.Decimal
}

// IsDraft indica si el documento aún es editable.
func (a *InventoryAdjustment) IsDraft() bool { return a.Status == DocumentStatusDraft }
