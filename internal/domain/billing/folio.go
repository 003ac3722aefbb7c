package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Formato del folio: contrato externo (aparece en nombres de archivo, asuntos
// de correo y búsqueda por folio), no debe cambiar de forma.
const (
	FolioPrefix = "COT"
	FirstFolio  = "COT-0001"
)

// FolioPattern valida el formato COT-NNNN (4 dígitos con ceros a la izquierda).
var FolioPattern = regexp.MustCompile(`^COT-\d{4}$`)

// NextFolio calcula el folio siguiente a partir del último folio existente
// (el mayor lexicográfico con prefijo COT-; con ancho fijo y ceros a la
// izquierda el orden lexicográfico coincide con el numérico hasta 9999).
//
// Sin folio previo, o con un sufijo no parseable (dato corrupto), arranca en
// COT-0001 en lugar de fallar el guardado.
//
// El candidato es optimista: dos asignaciones concurrentes pueden calcular el
// mismo folio. La restricción de unicidad en almacenamiento es la
// serialización autoritativa; ante colisión el caller reintenta con una
// lectura fresca del último folio.
func NextFolio(last string) string {
	if last == "" {
		return FirstFolio
	}
	_, suffix, found := strings.Cut(last, "-")
	if !found {
		return FirstFolio
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return FirstFolio
	}
	return fmt.Sprintf("%s-%04d", FolioPrefix, n+1)
}
