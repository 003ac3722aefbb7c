package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
	"github.com/tu-usuario/cotizador-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Los conceptos viajan como documento JSONB ordenado en la columna line_items:
// cada elemento guarda los campos de entrada y los derivados, pero el
// recálculo solo lee los de entrada.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// lineItemDoc representación JSONB de un concepto (entrada + derivados).
type lineItemDoc struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Taxable         bool            `json:"taxable"`
	WarrantyMonths  int             `json:"warranty_months"`
	LineSubtotal    decimal.Decimal `json:"line_subtotal"`
	LineDiscount    decimal.Decimal `json:"line_discount"`
	LineTotal       decimal.Decimal `json:"line_total"`
	LineTax         decimal.Decimal `json:"line_tax"`
}

func marshalLineItems(inv *entity.Invoice) ([]byte, error) {
	docs := make([]lineItemDoc, 0, len(inv.LineItems))
	for i, item := range inv.LineItems {
		doc := lineItemDoc{
			Name:            item.Name,
			Description:     item.Description,
			SKU:             item.SKU,
			Price:           item.Price,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			Taxable:         item.Taxable,
			WarrantyMonths:  item.WarrantyMonths,
		}
		if i < len(inv.Computed) {
			c := inv.Computed[i]
			doc.LineSubtotal = c.LineSubtotal
			doc.LineDiscount = c.LineDiscount
			doc.LineTotal = c.LineTotal
			doc.LineTax = c.LineTax
		}
		docs = append(docs, doc)
	}
	return json.Marshal(docs)
}

func unmarshalLineItems(data []byte, inv *entity.Invoice) error {
	if len(data) == 0 {
		return nil
	}
	var docs []lineItemDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("decodificar line_items: %w", err)
	}
	inv.LineItems = make([]entity.LineItem, 0, len(docs))
	inv.Computed = make([]entity.LineItemComputed, 0, len(docs))
	for _, doc := range docs {
		inv.LineItems = append(inv.LineItems, entity.LineItem{
			Name:            doc.Name,
			Description:     doc.Description,
			SKU:             doc.SKU,
			Price:           doc.Price,
			Quantity:        doc.Quantity,
			DiscountPercent: doc.DiscountPercent,
			DiscountAmount:  doc.DiscountAmount,
			Taxable:         doc.Taxable,
			WarrantyMonths:  doc.WarrantyMonths,
		})
		inv.Computed = append(inv.Computed, entity.LineItemComputed{
			LineSubtotal: doc.LineSubtotal,
			LineDiscount: doc.LineDiscount,
			LineTotal:    doc.LineTotal,
			LineTax:      doc.LineTax,
		})
	}
	return nil
}

const invoiceColumns = `
	id, folio, title, date,
	clt_name, clt_email, clt_phone,
	sell_name, sell_email, sell_phone,
	comments, currency, payment_method, tax_rate, exchange_rate, warranty_months,
	line_items, subtotal, total_discount, total_tax, total,
	created_at, updated_at`

// Create persiste una factura nueva con su folio ya asignado. Una colisión de
// folio (restricción única) retorna domain.ErrDuplicate: el caller reintenta
// la asignación con una lectura fresca del último folio.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	items, err := marshalLineItems(invoice)
	if err != nil {
		return fmt.Errorf("serializar conceptos: %w", err)
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Folio, invoice.Title, invoice.Date,
		invoice.Client.Name, invoice.Client.Email, invoice.Client.Phone,
		invoice.Seller.Name, invoice.Seller.Email, invoice.Seller.Phone,
		nullIfEmpty(invoice.Comments), invoice.Currency, invoice.PaymentMethod,
		invoice.TaxRate, invoice.ExchangeRate, invoice.WarrantyMonths,
		items, invoice.Subtotal, invoice.TotalDiscount, invoice.TotalTax, invoice.Total,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: folio %s ya existe", domain.ErrDuplicate, invoice.Folio)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza la factura completa excepto id, folio y created_at
// (el folio asignado es inmutable).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	items, err := marshalLineItems(invoice)
	if err != nil {
		return fmt.Errorf("serializar conceptos: %w", err)
	}
	query := `
		UPDATE invoices
		SET title = $2, date = $3,
		    clt_name = $4, clt_email = $5, clt_phone = $6,
		    sell_name = $7, sell_email = $8, sell_phone = $9,
		    comments = $10, currency = $11, payment_method = $12,
		    tax_rate = $13, exchange_rate = $14, warranty_months = $15,
		    line_items = $16, subtotal = $17, total_discount = $18, total_tax = $19, total = $20,
		    updated_at = $21
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Title, invoice.Date,
		invoice.Client.Name, invoice.Client.Email, invoice.Client.Phone,
		invoice.Seller.Name, invoice.Seller.Email, invoice.Seller.Phone,
		nullIfEmpty(invoice.Comments), invoice.Currency, invoice.PaymentMethod,
		invoice.TaxRate, invoice.ExchangeRate, invoice.WarrantyMonths,
		items, invoice.Subtotal, invoice.TotalDiscount, invoice.TotalTax, invoice.Total,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura completa por ID. Retorna (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista facturas ordenadas por fecha descendente (folio como desempate).
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY date DESC, folio DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastFolio retorna el mayor folio lexicográfico con el prefijo dado; con
// ancho fijo y ceros a la izquierda coincide con el mayor numérico.
// Retorna "" si todavía no hay folios.
func (r *InvoiceRepo) LastFolio(prefix string) (string, error) {
	query := `SELECT folio FROM invoices WHERE folio LIKE $1 || '%' ORDER BY folio DESC LIMIT 1`
	var folio string
	err := r.q.QueryRow(context.Background(), query, prefix).Scan(&folio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last folio: %w", err)
	}
	return folio, nil
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var comments *string
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.Folio, &inv.Title, &inv.Date,
		&inv.Client.Name, &inv.Client.Email, &inv.Client.Phone,
		&inv.Seller.Name, &inv.Seller.Email, &inv.Seller.Phone,
		&comments, &inv.Currency, &inv.PaymentMethod,
		&inv.TaxRate, &inv.ExchangeRate, &inv.WarrantyMonths,
		&items, &inv.Subtotal, &inv.TotalDiscount, &inv.TotalTax, &inv.Total,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if comments != nil {
		inv.Comments = *comments
	}
	if err := unmarshalLineItems(items, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
