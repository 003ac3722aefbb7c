package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SaveInvoiceRequest body para crear o actualizar una factura.
// TaxRate y ExchangeRate se reciben sin tipar: pasan por la coerción decimal
// segura en el caso de uso, de modo que un valor malformado degrada a su
// default documentado en lugar de rechazar la petición completa.
// LineItems es el payload crudo de conceptos (arreglo JSON de registros); solo
// su frontera estructural se valida.
type SaveInvoiceRequest struct {
	Title          string          `json:"title"`
	Date           string          `json:"date"` // YYYY-MM-DD
	ClientName     string          `json:"clt_name"`
	ClientEmail    string          `json:"clt_email"`
	ClientPhone    string          `json:"clt_phone"`
	SellerName     string          `json:"sell_name"`
	SellerEmail    string          `json:"sell_email"`
	SellerPhone    string          `json:"sell_phone"`
	Comments       string          `json:"comments,omitempty"`
	Currency       string          `json:"currency,omitempty"`       // MXN | USD
	PaymentMethod  string          `json:"payment_method,omitempty"` // cash | card | transfer
	TaxRate        any             `json:"tax_rate,omitempty"`
	ExchangeRate   any             `json:"exchange_rate,omitempty"`
	WarrantyMonths int             `json:"warranty_months,omitempty"`
	LineItems      json.RawMessage `json:"line_items,omitempty"`
}

// AddLineItemRequest body para agregar un concepto a una factura existente.
// El registro es crudo a propósito: el normalizador aplica defaults y coerción.
type AddLineItemRequest map[string]any

// LineItemResponse concepto con sus valores de entrada y derivados.
type LineItemResponse struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Taxable         bool            `json:"taxable"`
	WarrantyMonths  int             `json:"warranty_months"`

	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineDiscount decimal.Decimal `json:"line_discount"`
	LineTotal    decimal.Decimal `json:"line_total"`
	LineTax      decimal.Decimal `json:"line_tax"`
}

// InvoiceResponse factura completa en respuestas.
type InvoiceResponse struct {
	ID             string             `json:"id"`
	Folio          string             `json:"folio"`
	Title          string             `json:"title"`
	Date           string             `json:"date"`
	ClientName     string             `json:"clt_name"`
	ClientEmail    string             `json:"clt_email"`
	ClientPhone    string             `json:"clt_phone"`
	SellerName     string             `json:"sell_name"`
	SellerEmail    string             `json:"sell_email"`
	SellerPhone    string             `json:"sell_phone"`
	Comments       string             `json:"comments,omitempty"`
	Currency       string             `json:"currency"`
	PaymentMethod  string             `json:"payment_method"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	ExchangeRate   decimal.Decimal    `json:"exchange_rate"`
	WarrantyMonths int                `json:"warranty_months"`
	LineItems      []LineItemResponse `json:"line_items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TotalDiscount  decimal.Decimal    `json:"total_discount"`
	TotalTax       decimal.Decimal    `json:"total_tax"`
	Total          decimal.Decimal    `json:"total"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
}

// InvoiceListItem fila resumida para el listado.
type InvoiceListItem struct {
	ID         string          `json:"id"`
	Folio      string          `json:"folio"`
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	ClientName string          `json:"clt_name"`
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
}

// PagesResponse resultado de la paginación de documento para el render.
// Preview pasa intacto al caller: distingue vista previa de render final.
type PagesResponse struct {
	Pages      [][]LineItemResponse `json:"pages"`
	TotalPages int                  `json:"total_pages"`
	Preview    bool                 `json:"preview"`
}
