package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Conversion resultado de convertir una cantidad entre unidades.
// Factor es el factor efectivamente aplicado (1 en la identidad).
type Conversion struct {
	Quantity decimal.Decimal
	Factor   decimal.Decimal
	FromUOM  string
	ToUOM    string
}

// Convert convierte quantity de fromUOM a toUOM usando la tabla de unidades del producto.
//
//   - fromUOM == toUOM (sin distinguir mayúsculas): identidad, factor 1.
//   - toUOM es la unidad base: quantity × factor(fromUOM).
//   - fromUOM es la unidad base: quantity ÷ factor(toUOM).
//   - ninguna es base: pasa por la base (factor(from) ÷ factor(to)).
//
// Las unidades se resuelven primero por nombre exacto y luego por coincidencia parcial.
func Convert(quantity decimal.Decimal, fromUOM, toUOM string, product *entity.Product, uoms []entity.ProductUOM) (Conversion, error) {
	fold := cases.Fold()
	from, to, base := fold.String(strings.TrimSpace(fromUOM)), fold.String(strings.TrimSpace(toUOM)), fold.String(strings.TrimSpace(product.BaseUOM))

	out := Conversion{Quantity: quantity, Factor: decimal.NewFromInt(1), FromUOM: fromUOM, ToUOM: toUOM}
	if from == to {
		return out, nil
	}

	switch {
	case to == base:
		factor, err := resolveFactor(fromUOM, toUOM, product, uoms)
		if err != nil {
			return Conversion{}, err
		}
		out.Quantity = quantity.Mul(factor)
		out.Factor = factor
	case from == base:
		factor, err := resolveFactor(toUOM, fromUOM, product, uoms)
		if err != nil {
			return Conversion{}, err
		}
		out.Quantity = quantity.Div(factor)
		out.Factor = factor
	default:
		fromFactor, err := resolveFactor(fromUOM, toUOM, product, uoms)
		if err != nil {
			return Conversion{}, err
		}
		toFactor, err := resolveFactor(toUOM, fromUOM, product, uoms)
		if err != nil {
			return Conversion{}, err
		}
		out.Factor = fromFactor.Div(toFactor)
		out.Quantity = quantity.Mul(fromFactor).Div(toFactor)
	}
	return out, nil
}

// ToBase convierte una cantidad ingresada en uom a la unidad base del producto.
func ToBase(quantity decimal.Decimal, uom string, product *entity.Product, uoms []entity.ProductUOM) (Conversion, error) {
	if strings.TrimSpace(uom) == "" {
		uom = product.BaseUOM
	}
	return Convert(quantity, uom, product.BaseUOM, product, uoms)
}

// CostPerBaseUnit costo por unidad base a partir de un precio por unidad alterna (precio ÷ factor).
func CostPerBaseUnit(price decimal.Decimal, uom string, product *entity.Product, uoms []entity.ProductUOM) (decimal.Decimal, error) {
	conv, err := ToBase(decimal.NewFromInt(1), uom, product, uoms)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Div(conv.Factor), nil
}

// UOMNames nombres de las unidades disponibles, base primero.
func UOMNames(product *entity.Product, uoms []entity.ProductUOM) []string {
	names := make([]string, 0, len(uoms)+1)
	names = append(names, product.BaseUOM)
	for _, u := range uoms {
		names = append(names, u.Name)
	}
	return names
}

func resolveFactor(uom, target string, product *entity.Product, uoms []entity.ProductUOM) (decimal.Decimal, error) {
	u := findUOM(uom, uoms)
	if u == nil {
		return decimal.Zero, &domain.ConversionNotFoundError{
			ProductID: product.ID,
			FromUOM:   uom,
			ToUOM:     target,
			Available: UOMNames(product, uoms),
		}
	}
	if !u.ConversionFactor.IsPositive() {
		return decimal.Zero, &domain.InvalidConversionFactorError{
			ProductID: product.ID,
			UOM:       u.Name,
			Factor:    u.ConversionFactor,
		}
	}
	return u.ConversionFactor, nil
}

// findUOM coincidencia exacta (case-fold) y, si no hay, parcial en cualquier sentido.
func findUOM(name string, uoms []entity.ProductUOM) *entity.ProductUOM {
	fold := cases.Fold()
	target := fold.String(strings.TrimSpace(name))
	if target == "" {
		return nil
	}
	for i := range uoms {
		if fold.String(strings.TrimSpace(uoms[i].Name)) == target {
			return &uoms[i]
		}
	}
	for i := range uoms {
		n := fold.String(strings.TrimSpace(uoms[i].Name))
		if n == "" {
			continue
		}
		if strings.Contains(n, target) || strings.Contains(target, n) {
			return &uoms[i]
		}
	}
	return nil
}
