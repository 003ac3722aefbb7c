package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tu-usuario/cotizador-api/internal/application/dto"
	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
	"github.com/tu-usuario/cotizador-api/internal/domain/repository"
	"github.com/tu-usuario/cotizador-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// folioMaxAttempts intentos de asignación de folio ante colisiones de
// unicidad (dos creaciones concurrentes pueden calcular el mismo candidato).
const folioMaxAttempts = 3

// InvoiceUseCase casos de uso de facturas: crear, actualizar, mutar conceptos,
// paginar y listar. La persistencia ejecuta el asignador de folio (solo al
// crear) y el recálculo de totales (siempre) antes de confirmar.
type InvoiceUseCase struct {
	repo      repository.InvoiceRepository
	paginator billing.Paginator
	log       *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository, paginator billing.Paginator, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, paginator: paginator, log: log}
}

// Create crea una factura: decodifica el payload crudo de conceptos, asigna
// folio y recalcula totales antes de persistir. Un payload estructuralmente
// inválido retorna domain.ErrInvalidInput sin cambio parcial alguno.
//
// La asignación de folio es optimista: se lee el último folio, se calcula el
// candidato y se intenta insertar; si la restricción de unicidad rechaza el
// candidato (creación concurrente) se reintenta con una lectura fresca.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv := &entity.Invoice{}
	if err := uc.applyScalars(inv, in, true); err != nil {
		return nil, err
	}

	items, degraded, err := billing.DecodeLineItems(in.LineItems)
	if err != nil {
		return nil, err
	}
	uc.logDegradations("", degraded)
	inv.LineItems = items

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	for attempt := 1; attempt <= folioMaxAttempts; attempt++ {
		last, err := uc.repo.LastFolio(billing.FolioPrefix + "-")
		if err != nil {
			return nil, fmt.Errorf("leer último folio: %w", err)
		}
		inv.Folio = billing.NextFolio(last)
		billing.Recalculate(inv)

		err = uc.repo.Create(inv)
		if err == nil {
			return toInvoiceResponse(inv), nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		uc.log.Warn().
			Str("folio", inv.Folio).
			Int("attempt", attempt).
			Msg("colisión de folio, reintentando con lectura fresca")
	}
	return nil, fmt.Errorf("%w: asignación de folio agotó %d intentos", domain.ErrDuplicate, folioMaxAttempts)
}

// Update actualiza una factura existente. El folio ya asignado es inmutable:
// esta ruta nunca lo toca. Si el body trae line_items, la secuencia se
// reemplaza completa; los totales se recalculan siempre.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	if err := uc.applyScalars(inv, in, false); err != nil {
		return nil, err
	}
	if in.LineItems != nil {
		items, degraded, err := billing.DecodeLineItems(in.LineItems)
		if err != nil {
			return nil, err
		}
		uc.logDegradations(inv.Folio, degraded)
		inv.LineItems = items
	}

	billing.Recalculate(inv)
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Get obtiene una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List lista facturas ordenadas por fecha descendente.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.InvoiceListItem, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceListItem, 0, len(list))
	for _, inv := range list {
		out = append(out, &dto.InvoiceListItem{
			ID:         inv.ID,
			Folio:      inv.Folio,
			Title:      inv.Title,
			Date:       inv.Date.Format(dateLayout),
			ClientName: inv.Client.Name,
			Currency:   inv.Currency,
			Total:      inv.Total,
		})
	}
	return out, nil
}

// Delete elimina una factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// AddLineItem normaliza un registro crudo, lo agrega al final de la secuencia
// y persiste con totales recalculados.
func (uc *InvoiceUseCase) AddLineItem(ctx context.Context, id string, raw map[string]any) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	item, degraded := billing.NormalizeLineItem(raw)
	if len(degraded) > 0 {
		uc.logDegradations(inv.Folio, [][]string{degraded})
	}
	inv.LineItems = append(inv.LineItems, item)

	billing.Recalculate(inv)
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// RemoveLineItem elimina el concepto en la posición dada. Un índice fuera de
// rango retorna domain.ErrIndexOutOfRange sin mutación alguna.
func (uc *InvoiceUseCase) RemoveLineItem(ctx context.Context, id string, index int) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if index < 0 || index >= len(inv.LineItems) {
		return nil, fmt.Errorf("%w: índice %d con %d conceptos", domain.ErrIndexOutOfRange, index, len(inv.LineItems))
	}

	inv.LineItems = append(inv.LineItems[:index], inv.LineItems[index+1:]...)
	billing.Recalculate(inv)
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Pages particiona los conceptos de la factura en páginas imprimibles.
// Solo lectura; preview pasa intacto al caller.
func (uc *InvoiceUseCase) Pages(ctx context.Context, id string, preview bool) (*dto.PagesResponse, error) {
	inv, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	result := uc.paginator.Paginate(inv.LineItems)
	resp := &dto.PagesResponse{
		Pages:      make([][]dto.LineItemResponse, 0, len(result.Pages)),
		TotalPages: result.TotalPages,
		Preview:    preview,
	}
	pos := 0
	for _, page := range result.Pages {
		lines := make([]dto.LineItemResponse, 0, len(page))
		for _, item := range page {
			lines = append(lines, toLineItemResponse(item, computedAt(inv, pos)))
			pos++
		}
		resp.Pages = append(resp.Pages, lines)
	}
	return resp, nil
}

// applyScalars valida y aplica los campos escalares. En creación aplica
// defaults (MXN, cash); en actualización los campos vacíos conservan su valor.
func (uc *InvoiceUseCase) applyScalars(inv *entity.Invoice, in dto.SaveInvoiceRequest, creating bool) error {
	if creating && in.Title == "" {
		return fmt.Errorf("%w: title es obligatorio", domain.ErrInvalidInput)
	}
	if in.Title != "" {
		inv.Title = in.Title
	}

	if in.Date != "" {
		date, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			return fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		inv.Date = date
	} else if creating {
		return fmt.Errorf("%w: date es obligatorio", domain.ErrInvalidInput)
	}

	if in.ClientName != "" {
		inv.Client.Name = in.ClientName
	} else if creating {
		return fmt.Errorf("%w: clt_name es obligatorio", domain.ErrInvalidInput)
	}
	inv.Client.Email = firstNonEmpty(in.ClientEmail, inv.Client.Email)
	inv.Client.Phone = firstNonEmpty(in.ClientPhone, inv.Client.Phone)
	inv.Seller.Name = firstNonEmpty(in.SellerName, inv.Seller.Name)
	inv.Seller.Email = firstNonEmpty(in.SellerEmail, inv.Seller.Email)
	inv.Seller.Phone = firstNonEmpty(in.SellerPhone, inv.Seller.Phone)
	inv.Comments = firstNonEmpty(in.Comments, inv.Comments)

	switch in.Currency {
	case "":
		if creating {
			inv.Currency = entity.CurrencyMXN
		}
	case entity.CurrencyMXN, entity.CurrencyUSD:
		inv.Currency = in.Currency
	default:
		return fmt.Errorf("%w: currency debe ser MXN o USD", domain.ErrInvalidInput)
	}

	switch in.PaymentMethod {
	case "":
		if creating {
			inv.PaymentMethod = entity.PaymentCash
		}
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
		inv.PaymentMethod = in.PaymentMethod
	default:
		return fmt.Errorf("%w: payment_method debe ser cash, card o transfer", domain.ErrInvalidInput)
	}

	if in.WarrantyMonths < 0 {
		return fmt.Errorf("%w: warranty_months no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.WarrantyMonths > 0 || creating {
		inv.WarrantyMonths = in.WarrantyMonths
	}

	// Coerción segura: tasas corruptas o ausentes degradan a sus defaults
	// (16.00 de IVA, 18.00 de tipo de cambio) en lugar de rechazar.
	if creating || in.TaxRate != nil {
		inv.TaxRate = billing.CoerceTaxRate(in.TaxRate)
	}
	if creating || in.ExchangeRate != nil {
		inv.ExchangeRate = billing.CoerceExchangeRate(in.ExchangeRate)
	}
	return nil
}

// logDegradations deja rastro de cada sustitución numérica por default: las
// degradaciones silenciosas son una fuente potencial de corrupción de datos y
// deben ser observables en logs.
func (uc *InvoiceUseCase) logDegradations(folio string, degraded [][]string) {
	for i, fields := range degraded {
		if len(fields) == 0 {
			continue
		}
		uc.log.Warn().
			Str("folio", folio).
			Int("item_index", i).
			Strs("fields", fields).
			Msg("campos numéricos degradados a default en concepto")
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func computedAt(inv *entity.Invoice, pos int) entity.LineItemComputed {
	if pos < len(inv.Computed) {
		return inv.Computed[pos]
	}
	return entity.LineItemComputed{}
}

func toLineItemResponse(item entity.LineItem, c entity.LineItemComputed) dto.LineItemResponse {
	return dto.LineItemResponse{
		Name:            item.Name,
		Description:     item.Description,
		SKU:             item.SKU,
		Price:           item.Price,
		Quantity:        item.Quantity,
		DiscountPercent: item.DiscountPercent,
		DiscountAmount:  item.DiscountAmount,
		Taxable:         item.Taxable,
		WarrantyMonths:  item.WarrantyMonths,
		LineSubtotal:    c.LineSubtotal,
		LineDiscount:    c.LineDiscount,
		LineTotal:       c.LineTotal,
		LineTax:         c.LineTax,
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		Folio:          inv.Folio,
		Title:          inv.Title,
		Date:           inv.Date.Format(dateLayout),
		ClientName:     inv.Client.Name,
		ClientEmail:    inv.Client.Email,
		ClientPhone:    inv.Client.Phone,
		SellerName:     inv.Seller.Name,
		SellerEmail:    inv.Seller.Email,
		SellerPhone:    inv.Seller.Phone,
		Comments:       inv.Comments,
		Currency:       inv.Currency,
		PaymentMethod:  inv.PaymentMethod,
		TaxRate:        inv.TaxRate,
		ExchangeRate:   inv.ExchangeRate,
		WarrantyMonths: inv.WarrantyMonths,
		LineItems:      make([]dto.LineItemResponse, 0, len(inv.LineItems)),
		Subtotal:       inv.Subtotal,
		TotalDiscount:  inv.TotalDiscount,
		TotalTax:       inv.TotalTax,
		Total:          inv.Total,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      inv.UpdatedAt.Format(time.RFC3339),
	}
	for i, item := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, toLineItemResponse(item, computedAt(inv, i)))
	}
	return resp
}
