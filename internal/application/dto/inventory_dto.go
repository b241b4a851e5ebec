package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveRequest body para POST /api/inventory/receipts (entrada por compra).
// UnitCost es el costo por unidad ingresada (UOM), no por unidad base.
type ReceiveRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	WarehouseID   string          `json:"warehouse_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReferenceID   string          `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
	Reason        string          `json:"reason"`
}

// IssueRequest body para POST /api/inventory/issues (salida por venta u otra).
// Kind admite SALE u OUT; vacío equivale a SALE.
type IssueRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	WarehouseID   string          `json:"warehouse_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom"`
	Kind          string          `json:"kind"`
	ReferenceID   string          `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
	Reason        string          `json:"reason"`
}

// MovementResponse entrada del diario de inventario.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`        // magnitud en unidad base
	SignedQuantity   decimal.Decimal `json:"signed_quantity"` // con el signo del tipo
	UOM              string          `json:"uom"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	ReferenceID      string          `json:"reference_id,omitempty"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by"`
}

// MovementListResponse lista paginada del diario.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementFilters parámetros de GET /api/inventory/movements.
type MovementFilters struct {
	ProductID   string     `query:"product_id"`
	WarehouseID string     `query:"warehouse_id"`
	Kind        string     `query:"kind"`
	ReferenceID string     `query:"reference_id"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}

// StockResponse saldo de un producto en una bodega (unidad base).
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	BaseUOM     string          `json:"base_uom"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// StockListResponse saldos de una bodega o de un producto en todas sus bodegas.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}

// BatchResponse lote de costo.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LowStockDTO producto bajo su stock mínimo con la cantidad sugerida de reposición.
type LowStockDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinStockLevel     decimal.Decimal `json:"min_stock_level"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`          // MinStockLevel * 1.5
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority          int             `json:"priority"`             // 1 = más urgente
}
