package sales

import (
	"context"

	"github.com/farmatic/botica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Completar o cancelar una venta (decrementos o
// restauración de lotes, comisión, estado) es una sola unidad atómica: un
// fallo en cualquier decremento revierte todo sin efectos parciales visibles.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		commissionRepo repository.CommissionRepository,
		configRepo repository.CommissionConfigRepository,
		postingRepo repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
