package billing

import "github.com/tu-usuario/cotizador-api/internal/domain/entity"

// Capacidades de página por defecto para la representación impresa: la primera
// página lleva el encabezado completo de la factura y por eso admite menos
// conceptos que las siguientes.
const (
	FirstPageCapacity      = 11
	SubsequentPageCapacity = 18
)

// Paginator particiona la secuencia de conceptos en páginas imprimibles.
// Capacidades en cero o negativas usan los defaults del paquete.
type Paginator struct {
	FirstPageCapacity      int
	SubsequentPageCapacity int
}

// NewPaginator construye un paginador con las capacidades por defecto.
func NewPaginator() Paginator {
	return Paginator{
		FirstPageCapacity:      FirstPageCapacity,
		SubsequentPageCapacity: SubsequentPageCapacity,
	}
}

// Pages resultado de la paginación. TotalPages siempre es >= 1: una factura
// sin conceptos produce exactamente una página vacía, nunca cero páginas.
type Pages struct {
	Pages      [][]entity.LineItem
	TotalPages int
}

// Paginate particiona los conceptos en páginas: los primeros
// FirstPageCapacity en la página 1 y el resto en bloques de
// SubsequentPageCapacity. Los cortes son puramente posicionales; ningún
// concepto se divide ni se reordena entre páginas.
//
// Función pura sobre datos de solo lectura: segura de invocar cualquier
// número de veces (vista previa y render final incluidos).
func (p Paginator) Paginate(items []entity.LineItem) Pages {
	first := p.FirstPageCapacity
	if first <= 0 {
		first = FirstPageCapacity
	}
	subsequent := p.SubsequentPageCapacity
	if subsequent <= 0 {
		subsequent = SubsequentPageCapacity
	}

	var pages [][]entity.LineItem
	if len(items) <= first {
		pages = append(pages, items[:len(items):len(items)])
	} else {
		pages = append(pages, items[:first:first])
		for i := first; i < len(items); i += subsequent {
			end := i + subsequent
			if end > len(items) {
				end = len(items)
			}
			pages = append(pages, items[i:end:end])
		}
	}

	total := len(pages)
	if total < 1 {
		total = 1
	}
	return Pages{Pages: pages, TotalPages: total}
}
