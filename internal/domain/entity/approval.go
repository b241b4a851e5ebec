package entity

import (
	"encoding/json"
	"time"
)

// ApprovalKind tipo de operación sujeta a aprobación.
type ApprovalKind string

const (
	ApprovalKindAdjustment ApprovalKind = "INVENTORY_ADJUSTMENT"
	ApprovalKindTransfer   ApprovalKind = "INVENTORY_TRANSFER"
)

// Estados de una solicitud de aprobación.
const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

// ApprovalRequest solicitud de aprobación que difiere el posteo de un documento.
type ApprovalRequest struct {
	ID            string
	Type          ApprovalKind
	EntityID      string
	Payload       json.RawMessage
	Status        string
	RequestedByID string
	Reason        string
	ReviewedByID  string
	ReviewNote    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
