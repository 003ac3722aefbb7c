package repository

import "github.com/tu-usuario/cotizador-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create persiste una factura nueva (con folio ya asignado). Retorna
	// domain.ErrDuplicate si el folio colisiona con la restricción de unicidad:
	// esa es la serialización autoritativa de la asignación de folios y el
	// caller debe reintentar con una lectura fresca del último folio.
	Create(invoice *entity.Invoice) error
	Update(invoice *entity.Invoice) error
	// GetByID retorna (nil, nil) si la factura no existe.
	GetByID(id string) (*entity.Invoice, error)
	// List lista facturas ordenadas por fecha descendente.
	List(limit, offset int) ([]*entity.Invoice, error)
	Delete(id string) error
	// LastFolio retorna el mayor folio lexicográfico con el prefijo dado
	// (con ancho fijo coincide con el mayor numérico), o "" si no hay ninguno.
	LastFolio(prefix string) (string, error)
}
