package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/farmatic/botica-api/internal/application/commissions"
	"github.com/farmatic/botica-api/internal/application/inventory"
	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/application/purchasing"
	"github.com/farmatic/botica-api/internal/application/sales"
	"github.com/farmatic/botica-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseUC   *purchasing.PurchaseUseCase
	SaleUC       *sales.SaleUseCase
	BatchUC      *inventory.BatchUseCase
	PaymentUC    *payments.PaymentUseCase
	CommissionUC *commissions.CommissionUseCase
	ProductUC    *usecase.ProductUseCase
	PartnerUC    *usecase.PartnerUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todas las rutas van protegidas con
// Bearer Token; los tokens se emiten fuera de este servicio.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Lotes y disponibilidad FEFO
	batchHandler := NewBatchHandler(deps.BatchUC)
	products.Get("/:id/batches", batchHandler.ListByProduct)
	products.Get("/:id/batches/available", batchHandler.Availability)
	batches := protected.Group("/batches")
	batches.Patch("/:id/status", batchHandler.SetStatus)

	// Compras
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Patch("/:id", purchaseHandler.Update)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Patch("/:id", saleHandler.Update)

	// Pagos y créditos
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	paymentsGroup := protected.Group("/payments")
	paymentsGroup.Post("/", paymentHandler.Record)
	paymentsGroup.Get("/", paymentHandler.ListByParent)
	paymentsGroup.Delete("/:id", paymentHandler.Delete)
	credits := protected.Group("/credits")
	credits.Post("/", paymentHandler.CreateCredit)
	credits.Get("/", paymentHandler.ListCredits)
	credits.Get("/:id", paymentHandler.GetCredit)

	// Comisiones
	commissionHandler := NewCommissionHandler(deps.CommissionUC)
	commissionsGroup := protected.Group("/commissions")
	commissionsGroup.Get("/", commissionHandler.List)
	commissionsGroup.Get("/:id", commissionHandler.GetByID)
	commissionsGroup.Patch("/:id/pay", commissionHandler.Pay)
	configs := protected.Group("/commission-configs")
	configs.Post("/", commissionHandler.CreateConfig)
	configs.Get("/", commissionHandler.ListConfigs)

	// Catálogo de terceros
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", partnerHandler.CreateSupplier)
	suppliers.Get("/", partnerHandler.ListSuppliers)
	customers := protected.Group("/customers")
	customers.Post("/", partnerHandler.CreateCustomer)
	customers.Get("/", partnerHandler.ListCustomers)
	salespersons := protected.Group("/salespersons")
	salespersons.Post("/", partnerHandler.CreateSalesperson)
	salespersons.Get("/", partnerHandler.ListSalespersons)
	methods := protected.Group("/payment-methods")
	methods.Post("/", partnerHandler.CreatePaymentMethod)
	methods.Get("/", partnerHandler.ListPaymentMethods)
	categories := protected.Group("/categories")
	categories.Post("/", partnerHandler.CreateCategory)
	categories.Get("/", partnerHandler.ListCategories)
}
