package invoices

import (
	"context"
	"fmt"

	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/repository"
)

// PDFUseCase genera el documento imprimible de una factura.
type PDFUseCase struct {
	repo      repository.InvoiceRepository
	paginator billing.Paginator
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repo repository.InvoiceRepository, paginator billing.Paginator, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repo: repo, paginator: paginator, generator: generator}
}

// DownloadInvoicePDF recupera la factura, particiona sus conceptos en páginas
// y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien; el nombre de archivo sigue
//     el contrato invoice_{folio}.pdf que consumen correo y descargas.
//   - domain.ErrNotFound si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.repo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	pages := uc.paginator.Paginate(inv.LineItems)
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, pages)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("invoice_%s.pdf", inv.Folio)
	return pdfBytes, filename, nil
}
