package entity

import (
	"encoding/json"
	"time"
)

// AuditLog registro de auditoría de acciones sobre documentos.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string // CREATE, UPDATE, POST, CANCEL, APPROVE, REJECT
	Resource   string // INVENTORY_ADJUSTMENT, INVENTORY_TRANSFER, ...
	ResourceID string
	Details    json.RawMessage
	CreatedAt  time.Time
}
