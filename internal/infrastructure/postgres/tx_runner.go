package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/application/purchasing"
	"github.com/farmatic/botica-api/internal/application/sales"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ payments.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPurchase inicia una transacción con los repos que tocan las transiciones
// de compra y hace Commit o Rollback.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	batchRepo repository.BatchRepository,
	postingRepo repository.StockPostingRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewPurchaseRepository(tx),
		NewBatchRepository(tx),
		NewStockPostingRepository(tx),
		NewPaymentRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con los repos que tocan completar o cancelar
// una venta (lotes, comisión, pagos) y hace Commit o Rollback.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	commissionRepo repository.CommissionRepository,
	configRepo repository.CommissionConfigRepository,
	postingRepo repository.StockPostingRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewSaleRepository(tx),
		NewBatchRepository(tx),
		NewCommissionRepository(tx),
		NewCommissionConfigRepository(tx),
		NewStockPostingRepository(tx),
		NewPaymentRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPayment inicia una transacción con los repos de conciliación de pagos
// y hace Commit o Rollback.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	paymentRepo repository.PaymentRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	creditRepo repository.CreditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewPaymentRepository(tx),
		NewPurchaseRepository(tx),
		NewSaleRepository(tx),
		NewCreditRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
