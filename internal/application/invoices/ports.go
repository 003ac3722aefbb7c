package invoices

import (
	"context"

	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
)

// InvoicePDFGenerator puerto para el render del documento imprimible.
// Recibe las páginas ya particionadas por el paginador; la capa de render no
// decide cortes de página.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, pages billing.Pages) ([]byte, error)
}
