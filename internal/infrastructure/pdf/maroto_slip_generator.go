// Package pdf genera los comprobantes imprimibles de ajustes y traslados de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento      │  N° Documento + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Bodega(s) / Estado / Motivo                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cantidad | Unidad | Tipo/Sistema    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el número + firmas                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.SlipRenderer = (*MarotoSlipGenerator)(nil)

// MarotoSlipGenerator implementa inventory.SlipRenderer usando Maroto v2.
type MarotoSlipGenerator struct{}

// NewMarotoSlipGenerator construye el generador.
func NewMarotoSlipGenerator() *MarotoSlipGenerator { return &MarotoSlipGenerator{} }

// slipLine fila genérica de la tabla.
type slipLine struct {
	SKU, Name, Quantity, UOM, Extra string
}

// AdjustmentSlip comprobante de un ajuste. En un ajuste posteado la última columna
// muestra sistema -> real; en borrador muestra el tipo de línea.
func (g *MarotoSlipGenerator) AdjustmentSlip(adj *entity.InventoryAdjustment, products map[string]*entity.Product) ([]byte, error) {
	lines := make([]slipLine, 0, len(adj.Items))
	for _, it := range adj.Items {
		sku, name := productLabel(products, it.ProductID)
		extra := it.Type
		if it.SystemQuantity != nil && it.ActualQuantity != nil {
			extra = fmt.Sprintf("%s -> %s", qty(*it.SystemQuantity), qty(*it.ActualQuantity))
		}
		lines = append(lines, slipLine{SKU: sku, Name: name, Quantity: qty(it.Quantity), UOM: it.UOM, Extra: extra})
	}
	header := slipHeader{
		Title:  "AJUSTE DE INVENTARIO",
		Number: adj.AdjustmentNumber,
		Date:   adj.AdjustmentDate,
		Status: adj.Status,
		Reason: adj.Reason,
		Facts: []string{
			"Bodega: " + adj.WarehouseID,
			"Referencia: " + nonEmpty(adj.ReferenceNumber, "—"),
		},
		ExtraColumn: "Tipo / Sistema -> Real",
	}
	return g.render(header, lines)
}

// TransferSlip comprobante de un traslado.
func (g *MarotoSlipGenerator) TransferSlip(tr *entity.InventoryTransfer, products map[string]*entity.Product) ([]byte, error) {
	lines := make([]slipLine, 0, len(tr.Items))
	for _, it := range tr.Items {
		sku, name := productLabel(products, it.ProductID)
		lines = append(lines, slipLine{SKU: sku, Name: name, Quantity: qty(it.Quantity), UOM: it.UOM})
	}
	header := slipHeader{
		Title:  "TRASLADO ENTRE BODEGAS",
		Number: tr.TransferNumber,
		Date:   tr.TransferDate,
		Status: tr.Status,
		Reason: tr.Reason,
		Facts: []string{
			"Origen: " + tr.SourceWarehouseID,
			"Destino: " + tr.DestinationWarehouseID,
		},
	}
	return g.render(header, lines)
}

type slipHeader struct {
	Title       string
	Number      string
	Date        time.Time
	Status      string
	Reason      string
	Facts       []string
	ExtraColumn string
}

func (g *MarotoSlipGenerator) render(h slipHeader, lines []slipLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(h.Title+" "+h.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(h))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(factsRow(h))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(h.ExtraColumn))
	for _, r := range tableRows(lines, h.ExtraColumn != "") {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(h))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(h slipHeader) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(h.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+h.Status, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(h.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+h.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func factsRow(h slipHeader) core.Row {
	c := col.New(12).Add(text.New("DATOS DEL DOCUMENTO", props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))
	top := 6.0
	for _, f := range h.Facts {
		c.Add(text.New(f, props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 4
	}
	c.Add(text.New("Motivo: "+nonEmpty(h.Reason, "—"), props.Text{Size: 8, Top: top}))
	return row.New(top + 6).Add(c)
}

func tableHeaderRow(extra string) core.Row {
	hcol := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if extra == "" {
		return row.New(8).Add(
			hcol("SKU", 2, align.Left),
			hcol("Producto", 6, align.Left),
			hcol("Cantidad", 2, align.Right),
			hcol("Unidad", 2, align.Center),
		)
	}
	return row.New(8).Add(
		hcol("SKU", 2, align.Left),
		hcol("Producto", 4, align.Left),
		hcol("Cantidad", 2, align.Right),
		hcol("Unidad", 1, align.Center),
		hcol(extra, 3, align.Right),
	)
}

func tableRows(lines []slipLine, withExtra bool) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		if withExtra {
			out = append(out, row.New(7).Add(
				cell(l.SKU, 2, align.Left),
				cell(l.Name, 4, align.Left),
				cell(l.Quantity, 2, align.Right),
				cell(l.UOM, 1, align.Center),
				cell(l.Extra, 3, align.Right),
			))
			continue
		}
		out = append(out, row.New(7).Add(
			cell(l.SKU, 2, align.Left),
			cell(l.Name, 6, align.Left),
			cell(l.Quantity, 2, align.Right),
			cell(l.UOM, 2, align.Center),
		))
	}
	return out
}

func footerRow(h slipHeader) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(h.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Entregado por: ______________________", props.Text{Size: 9, Top: 8, Left: 4}),
			text.New("Recibido por:  ______________________", props.Text{Size: 9, Top: 20, Left: 4}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func productLabel(products map[string]*entity.Product, id string) (string, string) {
	if p, ok := products[id]; ok && p != nil {
		return p.SKU, p.Name
	}
	return "—", id
}

// qty cantidad sin ceros decimales sobrantes ("12", "0.5", "0.0001").
func qty(d decimal.Decimal) string {
	return d.Round(4).String()
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
