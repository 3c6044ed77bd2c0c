package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/farmatic/botica-api/internal/application/commissions"
	"github.com/farmatic/botica-api/internal/application/inventory"
	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/application/purchasing"
	"github.com/farmatic/botica-api/internal/application/sales"
	"github.com/farmatic/botica-api/internal/application/usecase"
	"github.com/farmatic/botica-api/internal/infrastructure/postgres"
	httpRouter "github.com/farmatic/botica-api/internal/interfaces/http"
	"github.com/farmatic/botica-api/pkg/config"
	"github.com/farmatic/botica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos sobre el pool (lecturas y CRUD simple); las mutaciones con efectos
	// de inventario van por el TxRunner con repos atados a la tx.
	batchRepo := postgres.NewBatchRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	creditRepo := postgres.NewCreditRepository(pool)
	commissionRepo := postgres.NewCommissionRepository(pool)
	configRepo := postgres.NewCommissionConfigRepository(pool)
	postingRepo := postgres.NewStockPostingRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	salespersonRepo := postgres.NewSalespersonRepository(pool)
	methodRepo := postgres.NewPaymentMethodRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	purchaseUC := purchasing.NewPurchaseUseCase(
		txRunner, purchaseRepo, supplierRepo, productRepo, methodRepo, postingRepo,
	)
	saleUC := sales.NewSaleUseCase(
		txRunner, saleRepo, batchRepo, customerRepo, salespersonRepo,
		productRepo, methodRepo, commissionRepo,
	)
	batchUC := inventory.NewBatchUseCase(batchRepo, productRepo)
	paymentUC := payments.NewPaymentUseCase(
		txRunner, paymentRepo, purchaseRepo, saleRepo, creditRepo, customerRepo, methodRepo,
	)
	commissionUC := commissions.NewCommissionUseCase(
		commissionRepo, configRepo, salespersonRepo, categoryRepo,
	)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	partnerUC := usecase.NewPartnerUseCase(
		supplierRepo, customerRepo, salespersonRepo, methodRepo, categoryRepo,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Botica API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseUC:   purchaseUC,
		SaleUC:       saleUC,
		BatchUC:      batchUC,
		PaymentUC:    paymentUC,
		CommissionUC: commissionUC,
		ProductUC:    productUC,
		PartnerUC:    partnerUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
