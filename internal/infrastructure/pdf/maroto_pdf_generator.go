// Package pdf implementa la representación imprimible de la factura.
//
// Layout de la página carta:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Folio  │  Fecha + Moneda                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Email / Tel                               │
//	│  VENDEDOR: Nombre / Email / Tel                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Concepto | P.Unit | Desc. | Importe           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES (solo última página) + comentarios / garantía       │
//	└─────────────────────────────────────────────────────────────┘
//
// Los cortes de página los decide el paginador de dominio (11 conceptos en la
// primera página, 18 en las subsecuentes); esta capa solo los dibuja.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var moneyPrinter = message.NewPrinter(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa invoices.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. Respeta los cortes de
// página ya calculados por el paginador: una página del documento por cada
// página de conceptos, con los totales solo en la última.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	pages billing.Pages,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+invoice.Folio, true).
		Build()

	m := maroto.New(cfg)

	pos := 0 // índice absoluto del concepto, para el join con los derivados
	for pageIdx, items := range pages.Pages {
		p := page.New()
		p.Add(headerRow(invoice))
		p.Add(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
		p.Add(contactRow("CLIENTE", invoice.Client))
		p.Add(contactRow("VENDEDOR", invoice.Seller))
		p.Add(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		p.Add(tableHeaderRow())
		for _, item := range items {
			p.Add(itemRow(item, computedAt(invoice, pos)))
			pos++
		}

		if pageIdx == len(pages.Pages)-1 {
			p.Add(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
			p.Add(totalsRow(invoice))
			p.Add(footerRows(invoice)...)
		}
		p.Add(pageNumberRow(pageIdx+1, pages.TotalPages))
		m.AddPages(p)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func computedAt(inv *entity.Invoice, pos int) entity.LineItemComputed {
	if pos < len(inv.Computed) {
		return inv.Computed[pos]
	}
	return entity.LineItemComputed{}
}

// formatMoney da formato es-MX con separador de miles y 2 decimales.
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprint(number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + folio (izq) y fecha + moneda (der).
func headerRow(invoice *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(invoice.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Folio: "+invoice.Folio, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+invoice.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(invoice.Currency+" · "+invoice.PaymentMethod, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// contactRow: bloque de contacto (cliente o vendedor).
func contactRow(role string, c entity.Contact) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(role, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s   |   Tel: %s",
				nonEmpty(c.Name, "—"),
				nonEmpty(c.Email, "—"),
				nonEmpty(c.Phone, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de conceptos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Concepto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Importe", 2, align.Right),
	)
}

// itemRow: una fila por concepto, con sus valores derivados.
func itemRow(item entity.LineItem, c entity.LineItemComputed) core.Row {
	name := item.Name
	if item.SKU != "" {
		name = item.SKU + " — " + name
	}
	return row.New(7).Add(
		col.New(1).Add(text.New(
			item.Quantity.StringFixed(0),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(5).Add(text.New(
			name,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			"$"+formatMoney(item.Price),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			"$"+formatMoney(c.LineDiscount),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			"$"+formatMoney(c.LineTotal),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// totalsRow: bloque de totales alineado a la derecha (solo última página).
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(4).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("IVA:"),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value("$"+formatMoney(invoice.Subtotal)),
			value("$"+formatMoney(invoice.TotalDiscount)),
			value("$"+formatMoney(invoice.TotalTax)),
			grandValue("$"+formatMoney(invoice.Total)),
		),
		col.New(1),
	)
}

// footerRows: comentarios y garantía.
func footerRows(invoice *entity.Invoice) []core.Row {
	var rows []core.Row
	if invoice.Comments != "" {
		rows = append(rows, row.New(10).Add(
			col.New(12).Add(
				text.New("Comentarios: "+invoice.Comments, props.Text{
					Size: 8, Color: colorGray, Top: 2,
				}),
			),
		))
	}
	if invoice.WarrantyMonths > 0 {
		rows = append(rows, row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Garantía: %d meses", invoice.WarrantyMonths), props.Text{
					Size: 8, Color: colorGray, Top: 1,
				}),
			),
		))
	}
	return rows
}

// pageNumberRow: numeración "Página N de M".
func pageNumberRow(current, total int) core.Row {
	return row.New(6).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Página %d de %d", current, total), props.Text{
				Size: 7, Align: align.Right, Color: colorGray, Top: 2,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
