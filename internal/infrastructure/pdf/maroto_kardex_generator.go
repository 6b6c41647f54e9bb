// Package pdf implementa la generación del kardex imprimible de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto + SKU  │  Stock actual + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Entrada | Salida | Saldo | OK        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos + leyenda                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(_ context.Context, card *dto.StockCardDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(card))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableEntryRows(card.Entries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(card))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + SKU (izq) y stock actual (der).
func headerRow(card *dto.StockCardDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(card.ProductName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+card.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Stock actual: %d", card.CurrentStock), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Center),
		h("Entrada", 2, align.Right),
		h("Salida", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("OK", 1, align.Center),
	)
}

// tableEntryRows: una fila por movimiento, con entrada/salida según el signo
// del cambio y el saldo corrido al final.
func tableEntryRows(entries []dto.StockCardEntryDTO) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		entrada, salida := "", ""
		if e.QuantityChange >= 0 {
			entrada = fmt.Sprintf("%d", e.QuantityChange)
		} else {
			salida = fmt.Sprintf("%d", -e.QuantityChange)
		}

		verif := "✓"
		verifColor := colorGray
		if !e.Verified {
			verif = "✗"
			verifColor = colorAlert
		}

		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				e.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				movementLabel(e.Type),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				entrada,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				salida,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", e.RunningBalance),
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				verif,
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: verifColor},
			)),
		))
	}
	return result
}

// footerRow: total de movimientos + leyenda.
func footerRow(card *dto.StockCardDTO) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total de movimientos: %d", len(card.Entries)), props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
			text.New(
				"El saldo de cada fila se recalcula desde el historial de movimientos. "+
					"Una marca ✗ indica una discrepancia con el saldo registrado.",
				props.Text{Size: 6.5, Color: colorGray, Top: 7},
			),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// movementLabel etiqueta corta en español para el tipo de movimiento.
func movementLabel(movementType string) string {
	switch movementType {
	case entity.MovementTypeIN:
		return "Entrada"
	case entity.MovementTypeOUT:
		return "Salida"
	case entity.MovementTypeADJUST:
		return "Ajuste"
	case entity.MovementTypeRETURNIN:
		return "Dev. cliente"
	case entity.MovementTypeRETURNOUT:
		return "Dev. proveedor"
	default:
		return movementType
	}
}
