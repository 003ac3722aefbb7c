package invoices_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cotizador-api/internal/application/dto"
	"github.com/tu-usuario/cotizador-api/internal/application/invoices"
	"github.com/tu-usuario/cotizador-api/internal/domain"
	"github.com/tu-usuario/cotizador-api/internal/domain/billing"
	"github.com/tu-usuario/cotizador-api/internal/domain/entity"
	"github.com/tu-usuario/cotizador-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de repositorio en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeInvoiceRepo emula el contrato del repositorio real, incluida la
// restricción de unicidad sobre el folio (clave para los tests de asignación).
type fakeInvoiceRepo struct {
	byID map[string]*entity.Invoice
	seq  int

	// forceCollisions hace fallar las primeras N inserciones con ErrDuplicate
	// sin registrar el folio, emulando a un escritor concurrente que gana.
	forceCollisions int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byID: make(map[string]*entity.Invoice)}
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if f.forceCollisions > 0 {
		f.forceCollisions--
		return fmt.Errorf("%w: folio %s ya existe", domain.ErrDuplicate, inv.Folio)
	}
	for _, other := range f.byID {
		if other.Folio == inv.Folio {
			return fmt.Errorf("%w: folio %s ya existe", domain.ErrDuplicate, inv.Folio)
		}
	}
	if inv.ID == "" {
		f.seq++
		inv.ID = fmt.Sprintf("inv-%04d", f.seq)
	}
	clone := *inv
	f.byID[inv.ID] = &clone
	return nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	stored, ok := f.byID[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	folio := stored.Folio // el folio persistido nunca cambia
	clone := *inv
	clone.Folio = folio
	f.byID[inv.ID] = &clone
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (f *fakeInvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.byID {
		clone := *inv
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Delete(id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeInvoiceRepo) LastFolio(prefix string) (string, error) {
	var last string
	for _, inv := range f.byID {
		if inv.Folio > last {
			last = inv.Folio
		}
	}
	return last, nil
}

func newUseCase(repo *fakeInvoiceRepo) *invoices.InvoiceUseCase {
	return invoices.NewInvoiceUseCase(repo, billing.NewPaginator(), logger.Nop())
}

func validRequest(items string) dto.SaveInvoiceRequest {
	req := dto.SaveInvoiceRequest{
		Title:      "Equipo de cómputo",
		Date:       "2026-03-15",
		ClientName: "ACME S.A. de C.V.",
	}
	if items != "" {
		req.LineItems = []byte(items)
	}
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y asignación de folio
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaFoliosSecuenciales(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	first, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err)
	assert.Equal(t, "COT-0001", first.Folio)

	second, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err)
	assert.Equal(t, "COT-0002", second.Folio)
}

func TestCreate_ReintentaAnteColisionDeFolio(t *testing.T) {
	repo := newFakeInvoiceRepo()
	repo.forceCollisions = 2 // dos escritores concurrentes ganan primero
	uc := newUseCase(repo)

	resp, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err, "dos colisiones caben dentro del presupuesto de reintentos")
	assert.Equal(t, "COT-0001", resp.Folio)
}

func TestCreate_ColisionesAgotanReintentos(t *testing.T) {
	repo := newFakeInvoiceRepo()
	repo.forceCollisions = 3
	uc := newUseCase(repo)

	_, err := uc.Create(context.Background(), validRequest(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, repo.byID, "ninguna factura debe quedar persistida")
}

func TestCreate_PayloadEstructuralmenteInvalido(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	// Objeto en vez de arreglo: rechazo estructural, sin cambio parcial.
	req := validRequest(`{"name": "no soy un arreglo"}`)
	_, err := uc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.byID)
}

func TestCreate_CamposObligatorios(t *testing.T) {
	uc := newUseCase(newFakeInvoiceRepo())

	cases := []struct {
		name string
		mut  func(*dto.SaveInvoiceRequest)
	}{
		{"sin título", func(r *dto.SaveInvoiceRequest) { r.Title = "" }},
		{"sin fecha", func(r *dto.SaveInvoiceRequest) { r.Date = "" }},
		{"fecha malformada", func(r *dto.SaveInvoiceRequest) { r.Date = "15/03/2026" }},
		{"sin cliente", func(r *dto.SaveInvoiceRequest) { r.ClientName = "" }},
		{"moneda desconocida", func(r *dto.SaveInvoiceRequest) { r.Currency = "EUR" }},
		{"método de pago desconocido", func(r *dto.SaveInvoiceRequest) { r.PaymentMethod = "cheque" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest("")
			tc.mut(&req)
			_, err := uc.Create(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_DefaultsYTotales(t *testing.T) {
	uc := newUseCase(newFakeInvoiceRepo())

	resp, err := uc.Create(context.Background(), validRequest(
		`[{"name": "Laptop", "price": "100.00", "quantity": 2, "taxable": true}]`,
	))
	require.NoError(t, err)

	assert.Equal(t, entity.CurrencyMXN, resp.Currency, "moneda default")
	assert.Equal(t, entity.PaymentCash, resp.PaymentMethod, "método de pago default")
	assert.Equal(t, "16", resp.TaxRate.String(), "IVA default")

	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "200", resp.LineItems[0].LineSubtotal.String())
	assert.Equal(t, "232", resp.Total.String(), "200 + 16% IVA")
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización: inmutabilidad del folio
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_NoTocaElFolio(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), created.ID, dto.SaveInvoiceRequest{
		Title: "Título corregido",
	})
	require.NoError(t, err)
	assert.Equal(t, created.Folio, updated.Folio, "el folio asignado es inmutable")
	assert.Equal(t, "Título corregido", updated.Title)
	assert.Equal(t, "ACME S.A. de C.V.", updated.ClientName, "campo no enviado conserva su valor")
}

func TestUpdate_ReemplazaConceptosCompletos(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(
		`[{"name": "A", "price": 10, "quantity": 1}, {"name": "B", "price": 20, "quantity": 1}]`,
	))
	require.NoError(t, err)
	require.Len(t, created.LineItems, 2)

	updated, err := uc.Update(context.Background(), created.ID, dto.SaveInvoiceRequest{
		LineItems: []byte(`[{"name": "C", "price": "5.50", "quantity": 3, "taxable": true}]`),
	})
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 1, "line_items reemplaza la secuencia completa")
	assert.Equal(t, "C", updated.LineItems[0].Name)
	assert.Equal(t, "16.5", updated.Subtotal.String(), "totales recalculados")
}

func TestUpdate_NoExiste(t *testing.T) {
	uc := newUseCase(newFakeInvoiceRepo())
	_, err := uc.Update(context.Background(), "no-existe", validRequest(""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutación de conceptos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLineItem_NormalizaYRecalcula(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err)

	// Precio corrupto: degrada a 0 sin abortar; el resto del registro entra.
	resp, err := uc.AddLineItem(context.Background(), created.ID, map[string]any{
		"name":     "Mouse inalámbrico",
		"price":    "no-numérico",
		"quantity": 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "Mouse inalámbrico", resp.LineItems[0].Name)
	assert.True(t, resp.LineItems[0].Price.IsZero(), "precio corrupto degrada a 0")
}

func TestRemoveLineItem_EliminaPorPosicion(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(
		`[{"name": "A", "price": 1, "quantity": 1},
		  {"name": "B", "price": 2, "quantity": 1},
		  {"name": "C", "price": 3, "quantity": 1}]`,
	))
	require.NoError(t, err)

	resp, err := uc.RemoveLineItem(context.Background(), created.ID, 1)
	require.NoError(t, err)
	require.Len(t, resp.LineItems, 2)
	assert.Equal(t, "A", resp.LineItems[0].Name)
	assert.Equal(t, "C", resp.LineItems[1].Name, "el orden relativo se conserva")
}

func TestRemoveLineItem_IndiceFueraDeRango(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(
		`[{"name": "A", "price": 1, "quantity": 1}]`,
	))
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 99} {
		_, err := uc.RemoveLineItem(context.Background(), created.ID, index)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange, "índice %d", index)
	}

	// Sin mutación: la factura conserva su único concepto.
	after, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, after.LineItems, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación de documento
// ──────────────────────────────────────────────────────────────────────────────

func TestPages_SinConceptosProduceUnaPaginaVacia(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	created, err := uc.Create(context.Background(), validRequest(""))
	require.NoError(t, err)

	resp, err := uc.Pages(context.Background(), created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Pages, 1)
	assert.Empty(t, resp.Pages[0])
	assert.True(t, resp.Preview, "preview pasa intacto")
}

func TestPages_DesbordeASegundaPagina(t *testing.T) {
	repo := newFakeInvoiceRepo()
	uc := newUseCase(repo)

	items := "["
	for i := 0; i < 12; i++ {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"name": "item-%02d", "price": 1, "quantity": 1}`, i)
	}
	items += "]"

	created, err := uc.Create(context.Background(), validRequest(items))
	require.NoError(t, err)

	resp, err := uc.Pages(context.Background(), created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Pages, 2)
	assert.Len(t, resp.Pages[0], 11)
	assert.Len(t, resp.Pages[1], 1)
	assert.Equal(t, "item-11", resp.Pages[1][0].Name, "el orden absoluto se conserva entre páginas")
}
