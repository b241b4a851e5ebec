package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductUOMRequest unidad alterna: 1 Name == ConversionFactor × unidad base.
type ProductUOMRequest struct {
	Name             string          `json:"name" validate:"required"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

// CreateProductRequest entrada para registrar un producto del catálogo.
type CreateProductRequest struct {
	SKU           string              `json:"sku" validate:"required,min=1,max=100"`
	Name          string              `json:"name" validate:"required,min=1,max=200"`
	BaseUOM       string              `json:"base_uom" validate:"required"`
	MinStockLevel decimal.Decimal     `json:"min_stock_level"`
	Cost          decimal.Decimal     `json:"cost"`
	UOMs          []ProductUOMRequest `json:"uoms"`
}

// ProductUOMResponse unidad alterna de un producto.
type ProductUOMResponse struct {
	Name             string          `json:"name"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string               `json:"id"`
	SKU           string               `json:"sku"`
	Name          string               `json:"name"`
	BaseUOM       string               `json:"base_uom"`
	MinStockLevel decimal.Decimal      `json:"min_stock_level"`
	Cost          decimal.Decimal      `json:"cost"`
	UOMs          []ProductUOMResponse `json:"uoms"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
