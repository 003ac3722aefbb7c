package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
)

// TestNextFolio_PrimeraAsignacion verifica que la primera factura del sistema
// recibe COT-0001.
func TestNextFolio_PrimeraAsignacion(t *testing.T) {
	assert.Equal(t, "COT-0001", billing.NextFolio(""))
}

// TestNextFolio_Secuencia verifica el incremento con relleno de ceros: con
// COT-0042 como último folio, el siguiente es COT-0043.
func TestNextFolio_Secuencia(t *testing.T) {
	assert.Equal(t, "COT-0043", billing.NextFolio("COT-0042"))
	assert.Equal(t, "COT-0002", billing.NextFolio("COT-0001"))
	assert.Equal(t, "COT-1000", billing.NextFolio("COT-0999"))
}

// TestNextFolio_SufijoCorrupto verifica que un folio existente corrupto
// (COT-xx) regresa al inicio de la secuencia en lugar de fallar el guardado.
func TestNextFolio_SufijoCorrupto(t *testing.T) {
	casos := []string{"COT-xx", "COT-", "basura", "COT--3"}
	for _, last := range casos {
		assert.Equal(t, "COT-0001", billing.NextFolio(last),
			"folio corrupto %q debe regresar a COT-0001", last)
	}
}

// TestNextFolio_Formato verifica que los folios generados cumplen el contrato
// externo ^COT-\d{4}$ (el formato aparece en nombres de archivo y búsquedas).
func TestNextFolio_Formato(t *testing.T) {
	folio := billing.NextFolio("")
	for i := 0; i < 50; i++ {
		assert.Regexp(t, billing.FolioPattern, folio)
		folio = billing.NextFolio(folio)
	}
}
