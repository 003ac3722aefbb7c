package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cotizador-api/internal/application/dto"
	"github.com/tu-usuario/cotizador-api/internal/application/invoices"
	"github.com/tu-usuario/cotizador-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de cotizaciones (protegido).
type InvoiceHandler struct {
	uc    *invoices.InvoiceUseCase
	pdfUC *invoices.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoices.InvoiceUseCase, pdfUC *invoices.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear cotización (asigna folio y recalcula totales)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveInvoiceRequest  true  "datos de la cotización"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List godoc
// @Summary      Listar cotizaciones (fecha descendente)
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceListItem
// @Security     BearerAuth
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit y offset deben ser enteros"})
	}
	list, err := h.uc.List(c.Context(), page)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener una cotización completa
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(invoice)
}

// Update godoc
// @Summary      Actualizar una cotización (el folio asignado nunca cambia)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la cotización"
// @Param        body  body  dto.SaveInvoiceRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(invoice)
}

// Delete godoc
// @Summary      Eliminar una cotización
// @Tags         invoices
// @Param        id  path  string  true  "ID de la cotización"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLineItem godoc
// @Summary      Agregar un concepto al final de la secuencia
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la cotización"
// @Param        body  body  dto.AddLineItemRequest  true  "registro crudo del concepto"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/items [post]
func (h *InvoiceHandler) AddLineItem(c *fiber.Ctx) error {
	var raw dto.AddLineItemRequest
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "el concepto debe ser un objeto JSON"})
	}
	invoice, err := h.uc.AddLineItem(c.Context(), c.Params("id"), raw)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(invoice)
}

// RemoveLineItem godoc
// @Summary      Eliminar el concepto en la posición dada
// @Tags         invoices
// @Produce      json
// @Param        id     path  string  true  "ID de la cotización"
// @Param        index  path  int     true  "posición del concepto (base 0)"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/items/{index} [delete]
func (h *InvoiceHandler) RemoveLineItem(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser un entero"})
	}
	invoice, err := h.uc.RemoveLineItem(c.Context(), c.Params("id"), index)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(invoice)
}

// Pages godoc
// @Summary      Particionar los conceptos en páginas imprimibles
// @Tags         invoices
// @Produce      json
// @Param        id       path   string  true   "ID de la cotización"
// @Param        preview  query  bool    false  "vista previa (pasa intacto en la respuesta)"
// @Success      200  {object}  dto.PagesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/pages [get]
func (h *InvoiceHandler) Pages(c *fiber.Ctx) error {
	preview := c.QueryBool("preview", false)
	pages, err := h.uc.Pages(c.Context(), c.Params("id"), preview)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(pages)
}

// DownloadPDF godoc
// @Summary      Descargar la cotización como PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// mapError traduce los errores de dominio a respuestas HTTP. Los casos de uso
// envuelven los sentinel, por eso errors.Is y no comparación directa.
func (h *InvoiceHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INDEX_OUT_OF_RANGE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cotización no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		// Colisión de folio que agotó los reintentos: el cliente puede volver a intentar.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "FOLIO_CONFLICT", Message: "no se pudo asignar folio, intente de nuevo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
