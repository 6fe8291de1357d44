// Package pdf genera el reporte Kardex de un artículo: encabezado con los
// datos del artículo, tabla de movimientos y totales de entradas/salidas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del artículo + SKU  │  Empresa + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | P.Unit | Total | Ref       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Stock final / Valor estimado  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexGenerator genera el Kardex en PDF usando Maroto v2.
type KardexGenerator struct{}

// NewKardexGenerator construye el generador.
func NewKardexGenerator() *KardexGenerator { return &KardexGenerator{} }

// Generate genera el PDF del Kardex y devuelve sus bytes.
func (g *KardexGenerator) Generate(
	company *entity.Company,
	item *entity.Item,
	txns []*entity.StockTransaction,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, t := range txns {
		m.AddRows(detailRow(t))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(item, txns)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company *entity.Company, item *entity.Item) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+item.SKU+"  ·  Unidad: "+item.Unit, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Kardex de inventario", props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(w int, label string, a align.Type) core.Col {
		return col.New(w).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary,
		}))
	}
	return row.New(6).Add(
		header(2, "Fecha", align.Left),
		header(2, "Tipo", align.Left),
		header(2, "Cantidad", align.Right),
		header(2, "P. Unitario", align.Right),
		header(2, "Total", align.Right),
		header(2, "Referencia", align.Left),
	)
}

func detailRow(t *entity.StockTransaction) core.Row {
	cell := func(w int, v string, a align.Type) core.Col {
		return col.New(w).Add(text.New(v, props.Text{Size: 8, Align: a}))
	}
	return row.New(5).Add(
		cell(2, t.Date.Format("02/01/2006"), align.Left),
		cell(2, string(t.Type), align.Left),
		cell(2, t.Quantity.String(), align.Right),
		cell(2, moneyOrBlank(t.UnitPrice), align.Right),
		cell(2, moneyOrBlank(t.TotalPrice), align.Right),
		cell(2, t.Reference, align.Left),
	)
}

func totalsRows(item *entity.Item, txns []*entity.StockTransaction) []core.Row {
	in, out := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Quantity.IsPositive() {
			in = in.Add(t.Quantity)
		} else {
			out = out.Add(t.Quantity.Abs())
		}
	}
	stockValue := decimal.Zero
	if item.AvgPurchasePrice != nil {
		stockValue = item.StockQuantity.Mul(*item.AvgPurchasePrice).Round(2)
	}

	totalRow := func(label, value string) core.Row {
		return row.New(5).Add(
			col.New(8),
			col.New(2).Add(text.New(label, props.Text{Size: 8, Align: align.Right, Style: fontstyle.Bold})),
			col.New(2).Add(text.New(value, props.Text{Size: 8, Align: align.Right})),
		)
	}
	return []core.Row{
		totalRow("Entradas", in.String()),
		totalRow("Salidas", out.String()),
		totalRow("Stock final", item.StockQuantity.String()),
		totalRow("Valor estimado", stockValue.StringFixed(2)),
	}
}

func moneyOrBlank(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
