package payments

import (
	"context"

	"github.com/farmatic/botica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada mutación de pago bloquea la fila del
// padre y recalcula su monto pagado en la misma unidad atómica.
type TxRunner interface {
	RunPayment(ctx context.Context, fn func(
		paymentRepo repository.PaymentRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
		creditRepo repository.CreditRepository,
	) error) error
}
