package dto

import (
	"encoding/json"
	"time"
)

// ApprovalResponse solicitud de aprobación.
type ApprovalResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	EntityID      string          `json:"entity_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	RequestedByID string          `json:"requested_by_id"`
	Reason        string          `json:"reason,omitempty"`
	ReviewedByID  string          `json:"reviewed_by_id,omitempty"`
	ReviewNote    string          `json:"review_note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ApprovalListResponse lista paginada de solicitudes.
type ApprovalListResponse struct {
	Items []ApprovalResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReviewApprovalRequest body para aprobar/rechazar.
type ReviewApprovalRequest struct {
	Note string `json:"note"`
}
