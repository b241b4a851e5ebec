package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse representa una bodega perteneciente a una sucursal (branch).
type Warehouse struct {
	ID        string
	BranchID  string
	Name      string
	Capacity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
