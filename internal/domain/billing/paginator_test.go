package billing_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
)

func makeItems(n int) []entity.LineItem {
	items := make([]entity.LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, entity.LineItem{
			Name:     fmt.Sprintf("producto-%02d", i),
			Price:    decimal.NewFromInt(int64(i + 1)),
			Quantity: decimal.NewFromInt(1),
			Taxable:  true,
		})
	}
	return items
}

// TestPaginate_PrimeraPaginaCompleta verifica el límite exacto: 11 conceptos
// caben completos en la primera página.
func TestPaginate_PrimeraPaginaCompleta(t *testing.T) {
	result := billing.NewPaginator().Paginate(makeItems(11))

	require.Len(t, result.Pages, 1)
	assert.Len(t, result.Pages[0], 11)
	assert.Equal(t, 1, result.TotalPages)
}

// TestPaginate_DesbordeAPaginaDos verifica que el concepto 12 abre la segunda
// página: página 1 con 11, página 2 con 1.
func TestPaginate_DesbordeAPaginaDos(t *testing.T) {
	result := billing.NewPaginator().Paginate(makeItems(12))

	require.Len(t, result.Pages, 2)
	assert.Len(t, result.Pages[0], 11)
	assert.Len(t, result.Pages[1], 1)
	assert.Equal(t, 2, result.TotalPages)
}

// TestPaginate_SinConceptos verifica que una factura vacía produce exactamente
// una página vacía, nunca cero páginas (TotalPages = 1).
func TestPaginate_SinConceptos(t *testing.T) {
	result := billing.NewPaginator().Paginate(nil)

	require.Len(t, result.Pages, 1)
	assert.Empty(t, result.Pages[0])
	assert.Equal(t, 1, result.TotalPages)
}

// TestPaginate_PaginasSubsecuentes verifica la capacidad de páginas
// subsecuentes (18): 11 + 18 + 1 conceptos producen 3 páginas.
func TestPaginate_PaginasSubsecuentes(t *testing.T) {
	result := billing.NewPaginator().Paginate(makeItems(30))

	require.Len(t, result.Pages, 3)
	assert.Len(t, result.Pages[0], 11)
	assert.Len(t, result.Pages[1], 18)
	assert.Len(t, result.Pages[2], 1)
	assert.Equal(t, 3, result.TotalPages)
}

// TestPaginate_OrdenPreservado verifica que los cortes son puramente
// posicionales: ningún concepto se divide, reordena ni pierde entre páginas.
func TestPaginate_OrdenPreservado(t *testing.T) {
	items := makeItems(25)
	result := billing.NewPaginator().Paginate(items)

	var flat []entity.LineItem
	for _, page := range result.Pages {
		flat = append(flat, page...)
	}
	require.Len(t, flat, len(items))
	for i := range items {
		assert.Equal(t, items[i].Name, flat[i].Name)
	}
}

// TestPaginate_CapacidadesPersonalizadas verifica que la capacidad de páginas
// subsecuentes es una constante de configuración sustituible.
func TestPaginate_CapacidadesPersonalizadas(t *testing.T) {
	p := billing.Paginator{FirstPageCapacity: 2, SubsequentPageCapacity: 3}
	result := p.Paginate(makeItems(9))

	require.Len(t, result.Pages, 4)
	assert.Len(t, result.Pages[0], 2)
	assert.Len(t, result.Pages[1], 3)
	assert.Len(t, result.Pages[2], 3)
	assert.Len(t, result.Pages[3], 1)
}
