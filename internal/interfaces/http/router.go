package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cotizador-api/internal/application/auth"
	"github.com/tu-usuario/cotizador-api/internal/application/invoices"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC *invoices.InvoiceUseCase
	PDFUC     *invoices.PDFUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido)
	invoiceGroup := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoiceGroup.Post("/", invoiceHandler.Create)
	invoiceGroup.Get("/", invoiceHandler.List)
	invoiceGroup.Get("/:id", invoiceHandler.GetByID)
	invoiceGroup.Put("/:id", invoiceHandler.Update)
	invoiceGroup.Delete("/:id", invoiceHandler.Delete)
	invoiceGroup.Post("/:id/items", invoiceHandler.AddLineItem)
	invoiceGroup.Delete("/:id/items/:index", invoiceHandler.RemoveLineItem)
	invoiceGroup.Get("/:id/pages", invoiceHandler.Pages)
	invoiceGroup.Get("/:id/pdf", invoiceHandler.DownloadPDF)
}
