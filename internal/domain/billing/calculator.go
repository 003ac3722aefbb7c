package billing

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agregados monetarios de una factura, redondeados a 2 decimales.
// Siempre cumplen Total = Subtotal - TotalDiscount + TotalTax.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	Total         decimal.Decimal
}

// CalculateTotals recalcula los totales de la factura a partir de la secuencia
// completa de conceptos y la tasa de IVA de la factura (porcentaje, ej. 16.00).
//
// Función pura, determinista e idempotente: recalcular dos veces sobre la
// misma entrada produce exactamente la misma salida, porque solo lee campos de
// entrada (nunca los derivados del recálculo anterior).
//
// Por concepto, en orden de secuencia:
//  1. lineSubtotal = price * quantity
//  2. descuento: el porcentaje tiene precedencia sobre el monto fijo; el monto
//     fijo NO se escala por cantidad
//  3. lineTotal = lineSubtotal - lineDiscount (sin recortar: puede quedar
//     negativo si el descuento excede el subtotal)
//  4. lineTax = lineTotal * taxRate/100 solo si el concepto es gravable
//
// Con la secuencia vacía todos los agregados quedan en cero.
func CalculateTotals(taxRate decimal.Decimal, items []entity.LineItem) (Totals, []entity.LineItemComputed) {
	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	totalTax := decimal.Zero

	computed := make([]entity.LineItemComputed, 0, len(items))
	for _, item := range items {
		lineSubtotal := item.Price.Mul(item.Quantity)

		var lineDiscount decimal.Decimal
		if item.DiscountPercent.GreaterThan(decimal.Zero) {
			lineDiscount = lineSubtotal.Mul(item.DiscountPercent.Div(hundred))
		} else {
			lineDiscount = item.DiscountAmount
		}

		lineTotal := lineSubtotal.Sub(lineDiscount)

		lineTax := decimal.Zero
		if item.Taxable {
			lineTax = lineTotal.Mul(taxRate.Div(hundred))
		}

		subtotal = subtotal.Add(lineSubtotal)
		totalDiscount = totalDiscount.Add(lineDiscount)
		totalTax = totalTax.Add(lineTax)

		computed = append(computed, entity.LineItemComputed{
			LineSubtotal: lineSubtotal.Round(2),
			LineDiscount: lineDiscount.Round(2),
			LineTotal:    lineTotal.Round(2),
			LineTax:      lineTax.Round(2),
		})
	}

	// Los agregados se redondean a 2 decimales y el total se deriva de los
	// agregados ya redondeados, para que la identidad
	// Total = Subtotal - TotalDiscount + TotalTax se cumpla exacta.
	t := Totals{
		Subtotal:      subtotal.Round(2),
		TotalDiscount: totalDiscount.Round(2),
		TotalTax:      totalTax.Round(2),
	}
	t.Total = t.Subtotal.Sub(t.TotalDiscount).Add(t.TotalTax)
	return t, computed
}

// Recalculate aplica CalculateTotals sobre la factura en sitio: sobreescribe
// los campos derivados (Computed y totales). La tasa de IVA de la propia
// factura pasa por la coerción segura, igual que los conceptos: un valor
// corrupto degrada al default en lugar de romper el recálculo.
func Recalculate(inv *entity.Invoice) {
	totals, computed := CalculateTotals(CoerceTaxRate(inv.TaxRate), inv.LineItems)
	inv.Computed = computed
	inv.Subtotal = totals.Subtotal
	inv.TotalDiscount = totals.TotalDiscount
	inv.TotalTax = totals.TotalTax
	inv.Total = totals.Total
}
