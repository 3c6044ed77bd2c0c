package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmatic/botica-api/internal/application/apptest"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "co-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *apptest.Store
	uc    *payments.PaymentUseCase
}

// newFixture siembra una compra PENDING (total 200), una venta PENDING
// (total 100), un crédito OPEN (total 150), cliente y método de pago.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now()
	s := apptest.NewStore()
	s.Customers["cust-1"] = &entity.Customer{ID: "cust-1", CompanyID: companyID, Name: "Cliente Uno"}
	s.Methods["cash"] = &entity.PaymentMethod{ID: "cash", CompanyID: companyID, Name: "Efectivo", Kind: entity.PaymentMethodCash, Active: true}
	s.Purchases["pur-1"] = &entity.Purchase{
		ID: "pur-1", CompanyID: companyID, SupplierID: "sup-1", InvoiceNumber: "F-001",
		Date: now, Status: entity.PurchaseStatusPending,
		TotalAmount: dec("200"), PaidAmount: decimal.Zero, CreatedAt: now,
	}
	s.Sales["sale-1"] = &entity.Sale{
		ID: "sale-1", CompanyID: companyID, CustomerID: "cust-1",
		Date: now, Status: entity.SaleStatusPending,
		TotalAmount: dec("100"), PaidAmount: decimal.Zero, CreatedAt: now,
	}
	s.Credits["cred-1"] = &entity.Credit{
		ID: "cred-1", CompanyID: companyID, CustomerID: "cust-1",
		Date: now, Status: entity.CreditStatusOpen,
		TotalAmount: dec("150"), PaidAmount: decimal.Zero, CreatedAt: now,
	}

	tx := &apptest.TxRunner{S: s}
	uc := payments.NewPaymentUseCase(
		tx,
		&apptest.PaymentRepo{S: s},
		&apptest.PurchaseRepo{S: s},
		&apptest.SaleRepo{S: s},
		&apptest.CreditRepo{S: s},
		&apptest.CustomerRepo{S: s},
		&apptest.MethodRepo{S: s},
	)
	return &fixture{store: s, uc: uc}
}

func (f *fixture) record(t *testing.T, parentType, parentID, amount string) *dto.PaymentResponse {
	t.Helper()
	resp, err := f.uc.Record(context.Background(), companyID, "user-1", dto.RecordPaymentRequest{
		ParentType:      parentType,
		ParentID:        parentID,
		Amount:          dec(amount),
		PaymentMethodID: "cash",
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Record
// ──────────────────────────────────────────────────────────────────────────────

// Registrar un abono recalcula el saldo del padre y lo devuelve en la respuesta.
func TestRecord_ActualizaSaldoDelPadre(t *testing.T) {
	f := newFixture(t)

	resp := f.record(t, entity.PaymentParentPurchase, "pur-1", "80")

	assert.True(t, resp.ParentPaidAmount.Equal(dec("80")))
	assert.True(t, resp.ParentTotal.Equal(dec("200")))
	assert.True(t, resp.ParentBalance.Equal(dec("120")))
	assert.True(t, f.store.Purchases["pur-1"].PaidAmount.Equal(dec("80")))

	// Segundo abono: el saldo es la suma recalculada, no un ajuste incremental.
	resp = f.record(t, entity.PaymentParentPurchase, "pur-1", "50")
	assert.True(t, resp.ParentPaidAmount.Equal(dec("130")))
	assert.True(t, resp.ParentBalance.Equal(dec("70")))
}

// La suma de abonos nunca supera el total del padre.
func TestRecord_SobrepagoRechazado(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.PaymentParentSale, "sale-1", "90")

	_, err := f.uc.Record(context.Background(), companyID, "user-1", dto.RecordPaymentRequest{
		ParentType:      entity.PaymentParentSale,
		ParentID:        "sale-1",
		Amount:          dec("11"),
		PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.store.Sales["sale-1"].PaidAmount.Equal(dec("90")), "el rechazo no altera el saldo")

	// Pagar el saldo exacto sí es válido.
	resp := f.record(t, entity.PaymentParentSale, "sale-1", "10")
	assert.True(t, resp.ParentBalance.Equal(decimal.Zero))
}

// Un padre cancelado no admite abonos.
func TestRecord_PadreCanceladoRechazado(t *testing.T) {
	f := newFixture(t)
	f.store.Purchases["pur-1"].Status = entity.PurchaseStatusCancelled

	_, err := f.uc.Record(context.Background(), companyID, "user-1", dto.RecordPaymentRequest{
		ParentType:      entity.PaymentParentPurchase,
		ParentID:        "pur-1",
		Amount:          dec("10"),
		PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRecord_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Monto no positivo.
	_, err := f.uc.Record(ctx, companyID, "user-1", dto.RecordPaymentRequest{
		ParentType: entity.PaymentParentSale, ParentID: "sale-1",
		Amount: decimal.Zero, PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tipo de padre desconocido.
	_, err = f.uc.Record(ctx, companyID, "user-1", dto.RecordPaymentRequest{
		ParentType: "INVOICE", ParentID: "sale-1",
		Amount: dec("10"), PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Padre inexistente.
	_, err = f.uc.Record(ctx, companyID, "user-1", dto.RecordPaymentRequest{
		ParentType: entity.PaymentParentSale, ParentID: "sale-x",
		Amount: dec("10"), PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Padre de otra empresa.
	f.store.Sales["sale-ajena"] = &entity.Sale{
		ID: "sale-ajena", CompanyID: "co-ajena", Status: entity.SaleStatusPending,
		TotalAmount: dec("100"), PaidAmount: decimal.Zero,
	}
	_, err = f.uc.Record(ctx, companyID, "user-1", dto.RecordPaymentRequest{
		ParentType: entity.PaymentParentSale, ParentID: "sale-ajena",
		Amount: dec("10"), PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Eliminar un pago de un padre abierto recalcula el saldo hacia abajo.
func TestDelete_RecalculaSaldo(t *testing.T) {
	f := newFixture(t)
	p1 := f.record(t, entity.PaymentParentPurchase, "pur-1", "80")
	f.record(t, entity.PaymentParentPurchase, "pur-1", "50")

	err := f.uc.Delete(context.Background(), companyID, p1.ID)
	require.NoError(t, err)

	assert.True(t, f.store.Purchases["pur-1"].PaidAmount.Equal(dec("50")))
	assert.Len(t, f.store.Payments, 1)
}

// Con el padre COMPLETED la eliminación queda restringida.
func TestDelete_RestringidoConPadreCompletado(t *testing.T) {
	f := newFixture(t)
	pay := f.record(t, entity.PaymentParentPurchase, "pur-1", "80")
	f.store.Purchases["pur-1"].Status = entity.PurchaseStatusCompleted

	err := f.uc.Delete(context.Background(), companyID, pay.ID)
	assert.ErrorIs(t, err, domain.ErrDeleteRestricted)
	assert.Len(t, f.store.Payments, 1, "el pago debe permanecer")

	f2 := newFixture(t)
	pay2 := f2.record(t, entity.PaymentParentSale, "sale-1", "40")
	f2.store.Sales["sale-1"].Status = entity.SaleStatusCompleted

	err = f2.uc.Delete(context.Background(), companyID, pay2.ID)
	assert.ErrorIs(t, err, domain.ErrDeleteRestricted)
}

func TestDelete_PagoAjenoOInexistente(t *testing.T) {
	f := newFixture(t)
	pay := f.record(t, entity.PaymentParentSale, "sale-1", "40")

	assert.ErrorIs(t, f.uc.Delete(context.Background(), companyID, "pago-x"), domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(context.Background(), "co-ajena", pay.ID), domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Créditos
// ──────────────────────────────────────────────────────────────────────────────

// El crédito pasa a PAID al saldarse y vuelve a OPEN si se elimina un abono.
func TestCredito_EstadoDerivadoDelSaldo(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.PaymentParentCredit, "cred-1", "100")
	assert.Equal(t, entity.CreditStatusOpen, f.store.Credits["cred-1"].Status)

	last := f.record(t, entity.PaymentParentCredit, "cred-1", "50")
	assert.Equal(t, entity.CreditStatusPaid, f.store.Credits["cred-1"].Status)
	assert.True(t, last.ParentBalance.Equal(decimal.Zero))

	// Crédito saldado: eliminar un abono queda restringido.
	err := f.uc.Delete(context.Background(), companyID, last.ID)
	assert.ErrorIs(t, err, domain.ErrDeleteRestricted)
}

// Eliminar un abono de un crédito aún abierto reabre el saldo.
func TestCredito_EliminarAbonoReabreSaldo(t *testing.T) {
	f := newFixture(t)
	p1 := f.record(t, entity.PaymentParentCredit, "cred-1", "60")
	f.record(t, entity.PaymentParentCredit, "cred-1", "40")

	err := f.uc.Delete(context.Background(), companyID, p1.ID)
	require.NoError(t, err)

	c := f.store.Credits["cred-1"]
	assert.True(t, c.PaidAmount.Equal(dec("40")))
	assert.Equal(t, entity.CreditStatusOpen, c.Status)
}

func TestCreateCredit(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateCredit(context.Background(), companyID, dto.CreateCreditRequest{
		CustomerID:  "cust-1",
		TotalAmount: dec("300"),
		Notes:       "fiado de mostrador",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStatusOpen, resp.Status)
	assert.True(t, resp.PaidAmount.Equal(decimal.Zero))
	assert.True(t, resp.TotalAmount.Equal(dec("300")))

	// Monto no positivo y cliente inexistente.
	_, err = f.uc.CreateCredit(context.Background(), companyID, dto.CreateCreditRequest{
		CustomerID: "cust-1", TotalAmount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreateCredit(context.Background(), companyID, dto.CreateCreditRequest{
		CustomerID: "cust-x", TotalAmount: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByParent(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.PaymentParentSale, "sale-1", "30")
	f.record(t, entity.PaymentParentSale, "sale-1", "20")

	list, err := f.uc.ListByParent(context.Background(), companyID, entity.PaymentParentSale, "sale-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.True(t, p.ParentPaidAmount.Equal(dec("50")))
		assert.True(t, p.ParentBalance.Equal(dec("50")))
	}
}
