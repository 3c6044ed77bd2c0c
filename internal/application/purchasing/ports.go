package purchasing

import (
	"context"

	"github.com/farmatic/botica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda transición de estado de compra (y su
// efecto sobre lotes y pagos) es una unidad atómica: o todo o nada.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		batchRepo repository.BatchRepository,
		postingRepo repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
