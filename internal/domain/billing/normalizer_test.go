package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
)

// TestNormalizeLineItem_DefaultsConMapaVacio verifica los defaults
// documentados: {} normaliza a quantity=1, discount_percent=0,
// discount_amount=0, taxable=true, warranty_months=0, price=0.
func TestNormalizeLineItem_DefaultsConMapaVacio(t *testing.T) {
	it, degraded := billing.NormalizeLineItem(map[string]any{})

	assert.Empty(t, degraded, "campos ausentes no cuentan como degradación")
	assert.True(t, it.Price.IsZero())
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, it.DiscountPercent.IsZero())
	assert.True(t, it.DiscountAmount.IsZero())
	assert.True(t, it.Taxable)
	assert.Equal(t, 0, it.WarrantyMonths)
}

// TestNormalizeLineItem_PrecioCorruptoDegrada verifica que {price: "abc"}
// normaliza a price=0 sin lanzar error, y que la sustitución queda observable
// en la lista de campos degradados (fuente potencial de corrupción silenciosa).
func TestNormalizeLineItem_PrecioCorruptoDegrada(t *testing.T) {
	it, degraded := billing.NormalizeLineItem(map[string]any{"price": "abc"})

	assert.True(t, it.Price.IsZero(), "price corrupto debe degradar a 0")
	assert.Contains(t, degraded, "price", "la degradación debe quedar registrada")
}

// TestNormalizeLineItem_ValoresComoString verifica la coerción segura de
// montos que llegan como strings numéricos (payloads de formularios).
func TestNormalizeLineItem_ValoresComoString(t *testing.T) {
	it, degraded := billing.NormalizeLineItem(map[string]any{
		"name":             "Servicio de instalación",
		"price":            "1499.90",
		"quantity":         "3",
		"discount_percent": "5",
		"taxable":          "false",
		"warranty_months":  "12",
	})

	assert.Empty(t, degraded)
	assert.Equal(t, "Servicio de instalación", it.Name)
	assert.True(t, it.Price.Equal(decimal.NewFromFloat(1499.90)))
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, it.DiscountPercent.Equal(decimal.NewFromInt(5)))
	assert.False(t, it.Taxable)
	assert.Equal(t, 12, it.WarrantyMonths)
}

// TestNormalizeLineItem_CantidadFraccionariaSeTrunca verifica que la cantidad
// es entera: un valor fraccionario se trunca.
func TestNormalizeLineItem_CantidadFraccionariaSeTrunca(t *testing.T) {
	it, _ := billing.NormalizeLineItem(map[string]any{"quantity": "2.9"})
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(2)))
}

// TestDecodeLineItems_PayloadValido verifica la decodificación de un arreglo
// JSON con normalización por concepto, conservando el orden.
func TestDecodeLineItems_PayloadValido(t *testing.T) {
	payload := []byte(`[
		{"name": "Laptop", "price": 18500.00, "quantity": 2},
		{"name": "Mouse", "price": "350", "discount_percent": 10}
	]`)

	items, degraded, err := billing.DecodeLineItems(payload)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Laptop", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(18500)))
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "Mouse", items[1].Name)
	assert.True(t, items[1].Quantity.Equal(decimal.NewFromInt(1)), "quantity ausente usa default 1")
	require.Len(t, degraded, 2)
	assert.Empty(t, degraded[0])
	assert.Empty(t, degraded[1])
}

// TestDecodeLineItems_ConceptoCorruptoNoAborta verifica que un concepto con
// campos malformados se repara vía defaults y no aborta la factura completa.
func TestDecodeLineItems_ConceptoCorruptoNoAborta(t *testing.T) {
	payload := []byte(`[
		{"name": "Bueno", "price": 100},
		{"name": "Malo", "price": "no-es-numero", "quantity": "tampoco"}
	]`)

	items, degraded, err := billing.DecodeLineItems(payload)

	require.NoError(t, err, "problemas por campo nunca rechazan el payload")
	require.Len(t, items, 2)
	assert.True(t, items[1].Price.IsZero())
	assert.True(t, items[1].Quantity.Equal(decimal.NewFromInt(1)))
	assert.ElementsMatch(t, []string{"price", "quantity"}, degraded[1])
}

// TestDecodeLineItems_RechazoEstructural verifica que solo la frontera
// estructural rechaza: payload que no es arreglo o no decodificable retorna
// ErrInvalidInput.
func TestDecodeLineItems_RechazoEstructural(t *testing.T) {
	casos := []struct {
		nombre  string
		payload string
	}{
		{"objeto en lugar de arreglo", `{"name": "x"}`},
		{"JSON malformado", `[{"name": "x"`},
		{"escalar", `42`},
		{"null", `null`},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			items, _, err := billing.DecodeLineItems([]byte(c.payload))
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, items, "un rechazo estructural no produce cambio parcial")
		})
	}
}

// TestDecodeLineItems_ArregloVacio verifica que [] es válido y produce cero
// conceptos.
func TestDecodeLineItems_ArregloVacio(t *testing.T) {
	items, _, err := billing.DecodeLineItems([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, items)
}
