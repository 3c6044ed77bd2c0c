package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmatic/botica-api/internal/application/apptest"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/sales"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "co-1"
	userID    = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fixture struct {
	store *apptest.Store
	uc    *sales.SaleUseCase
}

// newFixture siembra un cliente, un vendedor, un método de pago, un producto
// y dos lotes ACTIVE: b-1 (100 uds, vence antes) y b-2 (50 uds, vence después).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now()
	s := apptest.NewStore()
	s.Customers["cust-1"] = &entity.Customer{ID: "cust-1", CompanyID: companyID, Name: "Cliente Uno"}
	s.Salespersons["sp-1"] = &entity.Salesperson{ID: "sp-1", CompanyID: companyID, Name: "Vendedor Uno", Code: "V1", Active: true}
	s.Methods["cash"] = &entity.PaymentMethod{ID: "cash", CompanyID: companyID, Name: "Efectivo", Kind: entity.PaymentMethodCash, Active: true}
	s.Products["prod-1"] = &entity.Product{ID: "prod-1", CompanyID: companyID, SKU: "SKU-1", Name: "Paracetamol 500mg", Price: dec("10")}
	s.Batches["b-1"] = &entity.Batch{
		ID: "b-1", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-001",
		ExpiryDate: now.AddDate(1, 0, 0), Quantity: dec("100"), SellingPrice: dec("10"),
		Status: entity.BatchStatusActive, CreatedAt: now.Add(-2 * time.Hour),
	}
	s.Batches["b-2"] = &entity.Batch{
		ID: "b-2", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-002",
		ExpiryDate: now.AddDate(2, 0, 0), Quantity: dec("50"), SellingPrice: dec("10"),
		Status: entity.BatchStatusActive, CreatedAt: now.Add(-time.Hour),
	}

	tx := &apptest.TxRunner{S: s}
	uc := sales.NewSaleUseCase(
		tx,
		&apptest.SaleRepo{S: s},
		&apptest.BatchRepo{S: s},
		&apptest.CustomerRepo{S: s},
		&apptest.SalespersonRepo{S: s},
		&apptest.ProductRepo{S: s},
		&apptest.MethodRepo{S: s},
		&apptest.CommissionRepo{S: s},
	)
	return &fixture{store: s, uc: uc}
}

// addGlobalConfig agrega una configuración de comisión global PERCENTAGE.
func (f *fixture) addGlobalConfig(rate string) {
	f.store.Configs["cfg-global"] = &entity.CommissionConfig{
		ID: "cfg-global", CompanyID: companyID,
		Type: entity.CommissionTypePercentage, Rate: dec(rate), Active: true,
	}
}

func (f *fixture) batchQty(id string) decimal.Decimal {
	return f.store.Batches[id].Quantity
}

func items(reqs ...dto.SaleItemRequest) []dto.SaleItemRequest { return reqs }

func item(batchID, qty string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: "prod-1", BatchID: batchID, Quantity: dec(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Una venta PENDING no reserva ni descuenta stock.
func TestCreate_PendienteNoMutaStock(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1",
		Items:      items(item("b-1", "10")),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPending, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec("100")), "10 uds x 10 = 100")
	assert.True(t, f.batchQty("b-1").Equal(dec("100")), "PENDING no toca el lote")
}

// Crear directamente COMPLETED descuenta lotes y genera la comisión en el acto.
func TestCreate_CompletadaDescuentaYComisiona(t *testing.T) {
	f := newFixture(t)
	f.addGlobalConfig("5")

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID:    "cust-1",
		SalespersonID: "sp-1",
		Status:        entity.SaleStatusCompleted,
		Items:         items(item("b-1", "10")),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("90")))
	require.NotEmpty(t, resp.CommissionID)

	com := f.store.Commissions[resp.CommissionID]
	require.NotNil(t, com)
	assert.Equal(t, entity.CommissionStatusPending, com.Status)
	assert.True(t, com.Amount.Equal(dec("5")), "5% de 100")
	assert.True(t, com.SaleAmount.Equal(dec("100")), "snapshot del monto de la venta")
}

// El estado COMPLETED de un alta directa queda persistido, no solo en la
// respuesta: la cancelación posterior encuentra la venta completada y
// restaura el stock descontado.
func TestCreate_CompletadaPersisteEstado(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1",
		Status:     entity.SaleStatusCompleted,
		Items:      items(item("b-1", "10")),
	})
	require.NoError(t, err)
	require.True(t, f.batchQty("b-1").Equal(dec("90")))

	assert.Equal(t, entity.SaleStatusCompleted, f.store.Sales[resp.ID].Status,
		"la fila debe quedar COMPLETED, no solo la respuesta")

	cancelled, err := f.uc.Update(context.Background(), companyID, userID, resp.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("100")), "cancelar debe restaurar lo descontado")
}

// Sin vendedor asignado no se genera comisión aunque exista configuración.
func TestCreate_SinVendedorNoComisiona(t *testing.T) {
	f := newFixture(t)
	f.addGlobalConfig("5")

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1",
		Status:     entity.SaleStatusCompleted,
		Items:      items(item("b-1", "10")),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.CommissionID)
	assert.Empty(t, f.store.Commissions)
}

// Comisión calculada en cero (tasa 0) no materializa fila.
func TestCreate_ComisionCeroNoCreaFila(t *testing.T) {
	f := newFixture(t)
	f.addGlobalConfig("0")

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID:    "cust-1",
		SalespersonID: "sp-1",
		Status:        entity.SaleStatusCompleted,
		Items:         items(item("b-1", "10")),
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.Commissions)
}

// Un paid_amount inicial se materializa como fila de pago.
func TestCreate_PagoInicialMaterializaPago(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID:      "cust-1",
		Items:           items(item("b-1", "10")),
		PaidAmount:      decPtr("60"),
		PaymentMethodID: "cash",
	})
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(dec("60")))

	require.Len(t, f.store.Payments, 1)
	for _, p := range f.store.Payments {
		assert.Equal(t, entity.PaymentParentSale, p.ParentType)
		assert.Equal(t, resp.ID, p.ParentID)
		assert.True(t, p.Amount.Equal(dec("60")))
	}
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Pago inicial mayor al total.
	_, err := f.uc.Create(ctx, companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1", Items: items(item("b-1", "10")),
		PaidAmount: decPtr("101"), PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Pago inicial sin método de pago.
	_, err = f.uc.Create(ctx, companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1", Items: items(item("b-1", "10")), PaidAmount: decPtr("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cliente inexistente.
	_, err = f.uc.Create(ctx, companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-x", Items: items(item("b-1", "10")),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Línea cuyo lote pertenece a otro producto.
	_, err = f.uc.Create(ctx, companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1",
		Items: items(dto.SaleItemRequest{ProductID: "prod-otro", BatchID: "b-1", Quantity: dec("1")}),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Venta sin líneas.
	_, err = f.uc.Create(ctx, companyID, userID, dto.CreateSaleRequest{CustomerID: "cust-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// clienteRepoCaido simula una caída de infraestructura al leer clientes.
type clienteRepoCaido struct {
	*apptest.CustomerRepo
}

var errConexion = errors.New("conexión perdida")

func (clienteRepoCaido) GetByID(string) (*entity.Customer, error) {
	return nil, errConexion
}

// Un fallo de repositorio se propaga tal cual; no se disfraza de "no encontrado".
func TestCreate_ErrorDeRepositorioSePropaga(t *testing.T) {
	f := newFixture(t)
	uc := sales.NewSaleUseCase(
		&apptest.TxRunner{S: f.store},
		&apptest.SaleRepo{S: f.store},
		&apptest.BatchRepo{S: f.store},
		clienteRepoCaido{&apptest.CustomerRepo{S: f.store}},
		&apptest.SalespersonRepo{S: f.store},
		&apptest.ProductRepo{S: f.store},
		&apptest.MethodRepo{S: f.store},
		&apptest.CommissionRepo{S: f.store},
	)

	_, err := uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID: "cust-1",
		Items:      items(item("b-1", "10")),
	})
	assert.ErrorIs(t, err, errConexion)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Completar
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) createPending(t *testing.T, reqs ...dto.SaleItemRequest) *dto.SaleResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID:    "cust-1",
		SalespersonID: "sp-1",
		Items:         reqs,
	})
	require.NoError(t, err)
	return resp
}

// Completar descuenta exactamente las cantidades de cada línea sobre su lote.
func TestUpdate_CompletarDescuentaLotes(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "30"), item("b-2", "20"))

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("70")))
	assert.True(t, f.batchQty("b-2").Equal(dec("30")))
}

// Si un decremento falla a mitad de camino, ningún lote queda tocado.
func TestUpdate_FaltanteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "80"), item("b-2", "80"))

	_, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "b-2", stockErr.BatchID)
	assert.True(t, stockErr.Available.Equal(dec("50")))

	// Rollback completo: ni el primer decremento ni la clave de idempotencia.
	assert.True(t, f.batchQty("b-1").Equal(dec("100")), "el primer decremento debe revertirse")
	assert.True(t, f.batchQty("b-2").Equal(dec("50")))
	assert.Equal(t, entity.SaleStatusPending, f.store.Sales[sale.ID].Status)
	posted, _ := (&apptest.PostingRepo{S: f.store}).Exists(sale.ID, "", entity.PostingKindSaleCompletion)
	assert.False(t, posted)
}

// Un lote que dejó de ser elegible desde la asignación cuenta como cero.
func TestUpdate_LoteRetiradoCuentaComoCero(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10"))

	f.store.Batches["b-1"].Status = entity.BatchStatusRecalled

	_, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Available.Equal(decimal.Zero))
}

// Con la clave de idempotencia ya contabilizada, completar no descuenta de nuevo.
func TestUpdate_CompletarConEfectoContabilizadoEsNoOp(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10"))

	_, err := (&apptest.PostingRepo{S: f.store}).TryInsert(&entity.StockPosting{
		ID: "posting-previo", TransactionID: sale.ID, Kind: entity.PostingKindSaleCompletion,
	})
	require.NoError(t, err)

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("100")), "el reintento no debe descontar dos veces")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelar
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) createCompleted(t *testing.T, reqs ...dto.SaleItemRequest) *dto.SaleResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateSaleRequest{
		CustomerID:    "cust-1",
		SalespersonID: "sp-1",
		Status:        entity.SaleStatusCompleted,
		Items:         reqs,
	})
	require.NoError(t, err)
	return resp
}

// Cancelar una venta completada restaura exactamente lo descontado y cancela
// la comisión pendiente.
func TestUpdate_CancelarCompletadaRestauraStock(t *testing.T) {
	f := newFixture(t)
	f.addGlobalConfig("5")
	sale := f.createCompleted(t, item("b-1", "30"), item("b-2", "20"))
	require.True(t, f.batchQty("b-1").Equal(dec("70")))

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, resp.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("100")))
	assert.True(t, f.batchQty("b-2").Equal(dec("50")))
	assert.False(t, resp.PaidCommission)

	com := f.store.Commissions[sale.CommissionID]
	require.NotNil(t, com)
	assert.Equal(t, entity.CommissionStatusCancelled, com.Status)
}

// Una comisión ya pagada no se reversa al cancelar: se marca para revisión.
func TestUpdate_CancelarConComisionPagada(t *testing.T) {
	f := newFixture(t)
	f.addGlobalConfig("5")
	sale := f.createCompleted(t, item("b-1", "10"))

	f.store.Commissions[sale.CommissionID].Status = entity.CommissionStatusPaid

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCancelled,
	})
	require.NoError(t, err)

	assert.True(t, resp.PaidCommission, "la respuesta debe advertir la comisión pagada sin reversar")
	assert.Equal(t, entity.CommissionStatusPaid, f.store.Commissions[sale.CommissionID].Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("100")), "el stock sí se restaura")
}

// Cancelar una venta PENDING no toca stock (nunca se descontó).
func TestUpdate_CancelarPendienteNoTocaStock(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10"))

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, resp.Status)
	assert.True(t, f.batchQty("b-1").Equal(dec("100")))
}

// CANCELLED es terminal: ni transiciones ni edición de líneas, solo notas.
func TestUpdate_CanceladaEsTerminal(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10"))
	_, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCancelled,
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Items: items(item("b-2", "5")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	notes := "anotación post-cancelación"
	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, resp.Notes)
}

// Las líneas de una venta completada son inmutables.
func TestUpdate_LineasInmutablesTrasCompletar(t *testing.T) {
	f := newFixture(t)
	sale := f.createCompleted(t, item("b-1", "10"))

	_, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		Items: items(item("b-2", "5")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Subir paid_amount materializa el delta como pago; bajarlo se rechaza.
func TestUpdate_PaidAmountSoloAumenta(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10")) // total 100

	resp, err := f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		PaidAmount: decPtr("40"), PaymentMethodID: "cash",
	})
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(dec("40")))
	require.Len(t, f.store.Payments, 1)

	_, err = f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		PaidAmount: decPtr("20"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "bajar el pagado requiere eliminar pagos")

	_, err = f.uc.Update(context.Background(), companyID, userID, sale.ID, dto.UpdateSaleRequest{
		PaidAmount: decPtr("200"), PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sobrepago rechazado")
}

// El aislamiento multi-empresa aplica en cada operación.
func TestUpdate_OtraEmpresaProhibida(t *testing.T) {
	f := newFixture(t)
	sale := f.createPending(t, item("b-1", "10"))

	_, err := f.uc.Get(context.Background(), "co-ajena", sale.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Update(context.Background(), "co-ajena", userID, sale.ID, dto.UpdateSaleRequest{
		Status: entity.SaleStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
