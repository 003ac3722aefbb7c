package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monedas soportadas.
const (
	CurrencyMXN = "MXN"
	CurrencyUSD = "USD"
)

// Métodos de pago válidos.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Contact datos de contacto (cliente o vendedor) embebidos en la factura.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Invoice representa una factura/cotización completa.
// Subtotal, TotalDiscount, TotalTax y Total son derivados: se recalculan desde
// LineItems en cada persistencia y nunca se editan a mano. Después de cada
// recálculo se cumple Total = Subtotal - TotalDiscount + TotalTax.
type Invoice struct {
	ID    string
	Folio string // COT-NNNN, único; se asigna una sola vez al crear y es inmutable
	Title string
	Date  time.Time

	Client Contact
	Seller Contact

	Comments       string
	Currency       string          // MXN | USD
	PaymentMethod  string          // cash | card | transfer
	TaxRate        decimal.Decimal // porcentaje, ej. 16.00
	ExchangeRate   decimal.Decimal
	WarrantyMonths int

	// Secuencia ordenada de conceptos. El orden es significativo (se conserva
	// en despliegue y paginación); duplicados por nombre se permiten.
	LineItems []LineItem
	// Computed va en paralelo a LineItems (join por posición). Se sobreescribe
	// completo en cada recálculo; nunca se lee como insumo del cálculo.
	Computed []LineItemComputed

	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	Total         decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem un concepto de la factura: solo campos de entrada.
// Los valores derivados viven en LineItemComputed para que un recálculo nunca
// lea un derivado obsoleto como si fuera entrada.
type LineItem struct {
	Name            string
	Description     string
	SKU             string
	Price           decimal.Decimal // precio unitario, >= 0
	Quantity        decimal.Decimal // entero >= 0; default 1
	DiscountPercent decimal.Decimal // [0,100]; tiene precedencia sobre DiscountAmount
	DiscountAmount  decimal.Decimal // monto fijo; solo aplica si DiscountPercent es 0
	Taxable         bool
	WarrantyMonths  int
}

// LineItemComputed valores derivados de un concepto, producidos por el cálculo
// de totales. Solo lectura para el resto del sistema.
type LineItemComputed struct {
	LineSubtotal decimal.Decimal
	LineDiscount decimal.Decimal
	LineTotal    decimal.Decimal // puede ser negativo si el descuento excede el subtotal
	LineTax      decimal.Decimal
}
