package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	BranchID string          `json:"branch_id" validate:"required"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Capacity decimal.Decimal `json:"capacity"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string          `json:"id"`
	BranchID  string          `json:"branch_id"`
	Name      string          `json:"name"`
	Capacity  decimal.Decimal `json:"capacity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
