package billing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Defaults documentados para valores numéricos corruptos o ausentes.
var (
	DefaultTaxRate      = decimal.NewFromFloat(16.00) // IVA México
	DefaultExchangeRate = decimal.NewFromFloat(18.00) // MXN por USD
)

// SafeDecimal convierte un valor arbitrario (string, número, json.Number, nil)
// a decimal base 10. Si el valor no es interpretable devuelve el default y
// ok=false; nunca retorna error. Un concepto con un campo corrupto no debe
// abortar la factura completa: el valor degrada al default documentado.
func SafeDecimal(v any, def decimal.Decimal) (d decimal.Decimal, ok bool) {
	switch x := v.(type) {
	case nil:
		return def, false
	case decimal.Decimal:
		return x, true
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return def, false
		}
		return parsed, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return def, false
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return def, false
		}
		return parsed, true
	case float64:
		return decimal.NewFromFloat(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	default:
		return def, false
	}
}

// SafeBool convierte un valor arbitrario a booleano con default.
// Acepta bool y los strings "true"/"false" (cualquier capitalización).
func SafeBool(v any, def bool) (b bool, ok bool) {
	switch x := v.(type) {
	case nil:
		return def, false
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
		return def, false
	default:
		return def, false
	}
}

// CoerceTaxRate aplica SafeDecimal con el default de IVA (16.00).
// Un tax_rate corrupto en almacenamiento degrada al default en lugar de
// romper el recálculo de totales.
func CoerceTaxRate(v any) decimal.Decimal {
	d, _ := SafeDecimal(v, DefaultTaxRate)
	return d
}

// CoerceExchangeRate aplica SafeDecimal con el default de tipo de cambio (18.00).
func CoerceExchangeRate(v any) decimal.Decimal {
	d, _ := SafeDecimal(v, DefaultExchangeRate)
	return d
}
