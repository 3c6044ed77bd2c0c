package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmatic/botica-api/internal/application/apptest"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/purchasing"
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
	uc    *purchasing.PurchaseUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := apptest.NewStore()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", CompanyID: companyID, Name: "Distribuidora Andina"}
	s.Products["prod-1"] = &entity.Product{ID: "prod-1", CompanyID: companyID, SKU: "SKU-1", Name: "Amoxicilina 500mg", Price: dec("12")}
	s.Products["prod-2"] = &entity.Product{ID: "prod-2", CompanyID: companyID, SKU: "SKU-2", Name: "Ibuprofeno 400mg", Price: dec("8")}
	s.Methods["cash"] = &entity.PaymentMethod{ID: "cash", CompanyID: companyID, Name: "Efectivo", Kind: entity.PaymentMethodCash, Active: true}

	tx := &apptest.TxRunner{S: s}
	uc := purchasing.NewPurchaseUseCase(
		tx,
		&apptest.PurchaseRepo{S: s},
		&apptest.SupplierRepo{S: s},
		&apptest.ProductRepo{S: s},
		&apptest.MethodRepo{S: s},
		&apptest.PostingRepo{S: s},
	)
	return &fixture{store: s, uc: uc}
}

func itemReq(productID, batchNumber, qty, unitCost string) dto.PurchaseItemRequest {
	return dto.PurchaseItemRequest{
		ProductID:   productID,
		BatchNumber: batchNumber,
		ExpiryDate:  time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		Quantity:    dec(qty),
		UnitCost:    dec(unitCost),
	}
}

func (f *fixture) create(t *testing.T, invoice string, reqs ...dto.PurchaseItemRequest) *dto.PurchaseResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreatePurchaseRequest{
		SupplierID:    "sup-1",
		InvoiceNumber: invoice,
		Items:         reqs,
	})
	require.NoError(t, err)
	return resp
}

// batchByNumber busca el lote (producto, número) en el estado final.
func (f *fixture) batchByNumber(productID, number string) *entity.Batch {
	for _, b := range f.store.Batches {
		if b.ProductID == productID && b.BatchNumber == number {
			return b
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// La compra nace PENDING con el total calculado y sin ningún lote creado.
func TestCreate_PendienteSinLotes(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t, "F-001",
		itemReq("prod-1", "L-100", "50", "4"),
		itemReq("prod-2", "L-200", "30", "2"),
	)

	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec("260")), "50*4 + 30*2")
	assert.Empty(t, f.store.Batches, "crear la compra no recibe mercadería")
	for _, it := range resp.Items {
		assert.False(t, it.Received)
	}
}

// El número de factura es único por empresa.
func TestCreate_FacturaDuplicada(t *testing.T) {
	f := newFixture(t)
	f.create(t, "F-001", itemReq("prod-1", "L-100", "10", "4"))

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreatePurchaseRequest{
		SupplierID:    "sup-1",
		InvoiceNumber: "F-001",
		Items:         []dto.PurchaseItemRequest{itemReq("prod-1", "L-101", "5", "4")},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Sin precio de venta explícito en la línea rige el precio del producto.
func TestCreate_PrecioVentaPorDefecto(t *testing.T) {
	f := newFixture(t)
	withPrice := itemReq("prod-1", "L-100", "10", "4")
	withPrice.SellingPrice = decPtr("15")

	resp := f.create(t, "F-001", withPrice, itemReq("prod-2", "L-200", "5", "2"))

	assert.True(t, resp.Items[0].SellingPrice.Equal(dec("15")))
	assert.True(t, resp.Items[1].SellingPrice.Equal(dec("8")), "precio por defecto del producto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

// Completar la compra crea un lote por línea con cantidades y precios.
func TestUpdate_CompletarCreaLotes(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001",
		itemReq("prod-1", "L-100", "50", "4"),
		itemReq("prod-2", "L-200", "30", "2"),
	)

	resp, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCompleted, resp.Status)

	b := f.batchByNumber("prod-1", "L-100")
	require.NotNil(t, b)
	assert.True(t, b.Quantity.Equal(dec("50")))
	assert.True(t, b.PurchasePrice.Equal(dec("4")))
	assert.True(t, b.SellingPrice.Equal(dec("12")), "precio de venta heredado del producto")
	assert.Equal(t, entity.BatchStatusActive, b.Status)
	assert.Equal(t, "sup-1", b.SupplierID)

	require.NotNil(t, f.batchByNumber("prod-2", "L-200"))
	for _, it := range resp.Items {
		assert.True(t, it.Received)
	}
}

// La recepción sobre un lote existente (mismo producto y número) suma cantidades.
func TestUpdate_RecepcionIncrementaLoteExistente(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.store.Batches["b-prev"] = &entity.Batch{
		ID: "b-prev", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-100",
		ExpiryDate: now.AddDate(1, 0, 0), Quantity: dec("20"),
		PurchasePrice: dec("3"), SellingPrice: dec("10"),
		Status: entity.BatchStatusActive, CreatedAt: now,
	}
	p := f.create(t, "F-002", itemReq("prod-1", "L-100", "50", "4"))

	_, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	require.NoError(t, err)

	b := f.store.Batches["b-prev"]
	assert.True(t, b.Quantity.Equal(dec("70")), "20 previas + 50 recibidas")
	assert.True(t, b.PurchasePrice.Equal(dec("4")), "la última recepción gobierna el costo")
	assert.True(t, b.SellingPrice.Equal(dec("12")))
}

// Recepción parcial: solo las líneas nombradas crean lote; completar después
// recibe el resto sin duplicar lo ya contabilizado.
func TestUpdate_RecepcionParcialYLuegoCompleta(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001",
		itemReq("prod-1", "L-100", "50", "4"),
		itemReq("prod-2", "L-200", "30", "2"),
	)
	itemA := p.Items[0].ID

	resp, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status:          entity.PurchaseStatusPartiallyReceived,
		ReceivedItemIDs: []string{itemA},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPartiallyReceived, resp.Status)
	require.NotNil(t, f.batchByNumber("prod-1", "L-100"))
	assert.Nil(t, f.batchByNumber("prod-2", "L-200"), "la línea no nombrada no se recibe")
	assert.True(t, resp.Items[0].Received)
	assert.False(t, resp.Items[1].Received)

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	require.NoError(t, err)

	assert.True(t, f.batchByNumber("prod-1", "L-100").Quantity.Equal(dec("50")),
		"la línea ya recibida no se contabiliza dos veces")
	require.NotNil(t, f.batchByNumber("prod-2", "L-200"))
}

// Una segunda tanda parcial sobre una compra ya PARTIALLY_RECEIVED contabiliza
// las líneas nombradas aunque el valor del estado no cambie.
func TestUpdate_SegundaRecepcionParcial(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001",
		itemReq("prod-1", "L-100", "50", "4"),
		itemReq("prod-2", "L-200", "30", "2"),
		itemReq("prod-2", "L-201", "20", "2"),
	)
	itemA, itemB := p.Items[0].ID, p.Items[1].ID

	_, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status:          entity.PurchaseStatusPartiallyReceived,
		ReceivedItemIDs: []string{itemA},
	})
	require.NoError(t, err)

	resp, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status:          entity.PurchaseStatusPartiallyReceived,
		ReceivedItemIDs: []string{itemB},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPartiallyReceived, resp.Status)

	b := f.batchByNumber("prod-2", "L-200")
	require.NotNil(t, b, "la segunda tanda debe crear su lote")
	assert.True(t, b.Quantity.Equal(dec("30")))
	assert.True(t, f.batchByNumber("prod-1", "L-100").Quantity.Equal(dec("50")),
		"la primera tanda no se contabiliza dos veces")
	assert.Nil(t, f.batchByNumber("prod-2", "L-201"), "la línea nunca nombrada sigue pendiente")

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, f.batchByNumber("prod-2", "L-201"))
	assert.True(t, f.batchByNumber("prod-2", "L-200").Quantity.Equal(dec("30")))
}

// PARTIALLY_RECEIVED exige nombrar líneas, y las líneas deben existir.
func TestUpdate_RecepcionParcialValidaLineas(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001", itemReq("prod-1", "L-100", "50", "4"))

	_, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusPartiallyReceived,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status:          entity.PurchaseStatusPartiallyReceived,
		ReceivedItemIDs: []string{"item-inexistente"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.Batches, "el fallo revierte cualquier recepción parcial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones y edición
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar con pagos registrados se rechaza: primero eliminar los pagos.
func TestUpdate_CancelarConPagosRechazado(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreatePurchaseRequest{
		SupplierID:      "sup-1",
		InvoiceNumber:   "F-001",
		Items:           []dto.PurchaseItemRequest{itemReq("prod-1", "L-100", "50", "4")},
		PaidAmount:      decPtr("100"),
		PaymentMethodID: "cash",
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), companyID, userID, resp.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Una compra terminal no admite más transiciones ni edición de líneas.
func TestUpdate_TerminalInmutable(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001", itemReq("prod-1", "L-100", "50", "4"))
	_, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{itemReq("prod-1", "L-101", "10", "4")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Una línea ya recibida es inmutable; las no recibidas pueden reemplazarse.
func TestUpdate_LineaRecibidaInmutable(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001",
		itemReq("prod-1", "L-100", "50", "4"),
		itemReq("prod-2", "L-200", "30", "2"),
	)
	itemA, itemB := p.Items[0], p.Items[1]

	_, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Status:          entity.PurchaseStatusPartiallyReceived,
		ReceivedItemIDs: []string{itemA.ID},
	})
	require.NoError(t, err)

	// Cambiar la cantidad de la línea recibida: rechazado.
	changed := itemReq("prod-1", "L-100", "99", "4")
	changed.ID = itemA.ID
	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{changed, keepItem(itemB)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Reemplazar la línea no recibida conservando intacta la recibida: permitido.
	newB := itemReq("prod-2", "L-201", "40", "3")
	resp, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{keepItem(itemA), newB},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("320")), "50*4 + 40*3")
}

// keepItem reconstruye el request de una línea existente sin cambios.
func keepItem(it dto.PurchaseItemResponse) dto.PurchaseItemRequest {
	return dto.PurchaseItemRequest{
		ID:          it.ID,
		ProductID:   it.ProductID,
		BatchNumber: it.BatchNumber,
		ExpiryDate:  it.ExpiryDate,
		Quantity:    it.Quantity,
		UnitCost:    it.UnitCost,
	}
}

// Subir paid_amount materializa el delta como pago; bajarlo se rechaza.
func TestUpdate_PaidAmountSoloAumenta(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001", itemReq("prod-1", "L-100", "50", "4")) // total 200

	resp, err := f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		PaidAmount: decPtr("80"), PaymentMethodID: "cash",
	})
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(dec("80")))
	require.Len(t, f.store.Payments, 1)
	for _, pay := range f.store.Payments {
		assert.True(t, pay.Amount.Equal(dec("80")))
		assert.Equal(t, entity.PaymentParentPurchase, pay.ParentType)
	}

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		PaidAmount: decPtr("50"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Update(context.Background(), companyID, userID, p.ID, dto.UpdatePurchaseRequest{
		PaidAmount: decPtr("500"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sobrepago rechazado")
}

// El aislamiento multi-empresa aplica en cada operación.
func TestUpdate_OtraEmpresaProhibida(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "F-001", itemReq("prod-1", "L-100", "50", "4"))

	_, err := f.uc.Get(context.Background(), "co-ajena", p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Update(context.Background(), "co-ajena", userID, p.ID, dto.UpdatePurchaseRequest{
		Status: entity.PurchaseStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
