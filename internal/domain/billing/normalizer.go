package billing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
)

// Defaults documentados para los campos de un concepto.
var (
	defaultQuantity = decimal.NewFromInt(1)
)

// NormalizeLineItem convierte un registro crudo (claves arbitrarias, valores
// posiblemente strings, números o ausentes) en un concepto canónico.
//
// Transformación pura: no muta el mapa de entrada ni la factura. Los campos
// numéricos pasan por SafeDecimal; un campo presente pero no interpretable
// degrada a su default en lugar de rechazar el concepto. El segundo valor de
// retorno lista los campos degradados para que el caller pueda observar la
// sustitución (en logs y tests); vacío significa entrada limpia.
func NormalizeLineItem(raw map[string]any) (entity.LineItem, []string) {
	var degraded []string

	track := func(field string, ok bool) {
		if _, present := raw[field]; present && !ok {
			degraded = append(degraded, field)
		}
	}

	price, ok := SafeDecimal(raw["price"], decimal.Zero)
	track("price", ok)

	quantity, ok := SafeDecimal(raw["quantity"], defaultQuantity)
	track("quantity", ok)
	quantity = quantity.Truncate(0) // cantidad es entera

	discountPercent, ok := SafeDecimal(raw["discount_percent"], decimal.Zero)
	track("discount_percent", ok)

	discountAmount, ok := SafeDecimal(raw["discount_amount"], decimal.Zero)
	track("discount_amount", ok)

	taxable, ok := SafeBool(raw["taxable"], true)
	track("taxable", ok)

	warranty, ok := SafeDecimal(raw["warranty_months"], decimal.Zero)
	track("warranty_months", ok)

	return entity.LineItem{
		Name:            stringField(raw, "name"),
		Description:     stringField(raw, "description"),
		SKU:             stringField(raw, "sku"),
		Price:           price,
		Quantity:        quantity,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Taxable:         taxable,
		WarrantyMonths:  int(warranty.IntPart()),
	}, degraded
}

// DecodeLineItems decodifica un payload JSON (arreglo de registros crudos) y
// normaliza cada concepto. Solo rechaza en la frontera estructural: payload no
// decodificable o que no es un arreglo retorna domain.ErrInvalidInput. Los
// problemas de campos individuales se reparan vía defaults, nunca rechazan.
//
// El segundo retorno trae, por posición, los campos degradados de cada
// concepto (nil si el concepto venía limpio).
func DecodeLineItems(payload []byte) ([]entity.LineItem, [][]string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber() // conservar precisión decimal de los montos

	var rawItems []map[string]any
	if err := dec.Decode(&rawItems); err != nil {
		return nil, nil, fmt.Errorf("%w: el payload de conceptos no es un arreglo JSON válido", domain.ErrInvalidInput)
	}
	if rawItems == nil { // JSON null: decodifica pero no es un arreglo
		return nil, nil, fmt.Errorf("%w: el payload de conceptos debe ser un arreglo", domain.ErrInvalidInput)
	}

	items := make([]entity.LineItem, 0, len(rawItems))
	degraded := make([][]string, 0, len(rawItems))
	for _, raw := range rawItems {
		item, fields := NormalizeLineItem(raw)
		items = append(items, item)
		degraded = append(degraded, fields)
	}
	return items, degraded, nil
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}
