package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (servicio externo).
// BaseUOM es la unidad canónica en la que se guardan saldos y lotes.
type Product struct {
	ID            string
	SKU           string
	Name          string
	BaseUOM       string
	MinStockLevel decimal.Decimal // umbral para la lista de stock bajo
	Cost          decimal.Decimal // costo promedio del catálogo; se usa si no hay lotes abiertos
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductUOM unidad alterna de un producto: 1 Name == ConversionFactor × BaseUOM.
// Una vez referenciada por un movimiento posteado no debe cambiar de significado;
// el diario guarda el factor aplicado.
type ProductUOM struct {
	ProductID        string
	Name             string
	ConversionFactor decimal.Decimal
}
