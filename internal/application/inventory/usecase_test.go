package inventory_test

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
	"github.com/farmatic/botica-api/internal/application/inventory"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

const companyID = "co-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *apptest.Store
	uc    *inventory.BatchUseCase
}

// newFixture siembra un producto con tres lotes: b-pronto (20 uds, vence
// primero), b-tarde (100 uds) y b-vencido (stock pero ya vencido).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now()
	s := apptest.NewStore()
	s.Products["prod-1"] = &entity.Product{ID: "prod-1", CompanyID: companyID, SKU: "SKU-1", Name: "Omeprazol 20mg", Price: dec("9")}
	s.Batches["b-pronto"] = &entity.Batch{
		ID: "b-pronto", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-001",
		ExpiryDate: now.AddDate(0, 1, 0), Quantity: dec("20"), SellingPrice: dec("9"),
		Status: entity.BatchStatusActive, CreatedAt: now.Add(-3 * time.Hour),
	}
	s.Batches["b-tarde"] = &entity.Batch{
		ID: "b-tarde", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-002",
		ExpiryDate: now.AddDate(1, 0, 0), Quantity: dec("100"), SellingPrice: dec("9"),
		Status: entity.BatchStatusActive, CreatedAt: now.Add(-2 * time.Hour),
	}
	s.Batches["b-vencido"] = &entity.Batch{
		ID: "b-vencido", CompanyID: companyID, ProductID: "prod-1", BatchNumber: "L-000",
		ExpiryDate: now.AddDate(0, 0, -5), Quantity: dec("40"), SellingPrice: dec("9"),
		Status: entity.BatchStatusActive, CreatedAt: now.Add(-24 * time.Hour),
	}

	uc := inventory.NewBatchUseCase(&apptest.BatchRepo{S: s}, &apptest.ProductRepo{S: s})
	return &fixture{store: s, uc: uc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

// El disponible suma solo lotes elegibles y el listado viene en orden FEFO.
func TestAvailability_SoloElegiblesEnOrdenFEFO(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Availability(context.Background(), companyID, "prod-1", decimal.Zero)
	require.NoError(t, err)

	assert.True(t, resp.Available.Equal(dec("120")), "20 + 100; el vencido no cuenta")
	require.Len(t, resp.Batches, 2)
	assert.Equal(t, "b-pronto", resp.Batches[0].ID, "el que vence primero encabeza")
	assert.Equal(t, "b-tarde", resp.Batches[1].ID)
	assert.Empty(t, resp.Allocation, "sin cantidad solicitada no hay partición")
}

// Con cantidad solicitada la respuesta incluye la partición FEFO sugerida.
func TestAvailability_ParticionSugerida(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Availability(context.Background(), companyID, "prod-1", dec("50"))
	require.NoError(t, err)

	require.Len(t, resp.Allocation, 2)
	assert.Equal(t, "b-pronto", resp.Allocation[0].BatchID)
	assert.True(t, resp.Allocation[0].Quantity.Equal(dec("20")))
	assert.Equal(t, "b-tarde", resp.Allocation[1].BatchID)
	assert.True(t, resp.Allocation[1].Quantity.Equal(dec("30")))
}

// Solicitar más de lo disponible devuelve el error tipado con el faltante.
func TestAvailability_FaltanteTipado(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Availability(context.Background(), companyID, "prod-1", dec("500"))
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Available.Equal(dec("120")))
}

func TestAvailability_ProductoAjenoONoExistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Availability(context.Background(), companyID, "prod-x", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Availability(context.Background(), "co-ajena", "prod-1", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y estado efectivo
// ──────────────────────────────────────────────────────────────────────────────

// El listado completo incluye todos los lotes; el vencido se reporta EXPIRED
// sin que nadie haya mutado su fila.
func TestListByProduct_EstadoEfectivo(t *testing.T) {
	f := newFixture(t)

	list, err := f.uc.ListByProduct(context.Background(), companyID, "prod-1")
	require.NoError(t, err)
	require.Len(t, list, 3)

	byID := map[string]dto.BatchResponse{}
	for _, b := range list {
		byID[b.ID] = b
	}
	assert.Equal(t, entity.BatchStatusExpired, byID["b-vencido"].Status)
	assert.Equal(t, entity.BatchStatusActive, byID["b-pronto"].Status)
	assert.Equal(t, entity.BatchStatusActive, f.store.Batches["b-vencido"].Status,
		"EXPIRED es derivado: la fila persistida sigue ACTIVE")
}

// ──────────────────────────────────────────────────────────────────────────────
// SetStatus
// ──────────────────────────────────────────────────────────────────────────────

// Retiro y cuarentena exigen motivo y registran los metadatos.
func TestSetStatus_RetiroConMotivo(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status: entity.BatchStatusRecalled,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "retiro sin motivo rechazado")

	resp, err := f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status:    entity.BatchStatusRecalled,
		Reason:    "alerta sanitaria",
		Reference: "ALERTA-2025-014",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusRecalled, resp.Status)
	assert.Equal(t, "alerta sanitaria", resp.RecallReason)

	b := f.store.Batches["b-pronto"]
	require.NotNil(t, b.RecallDate)
	assert.Equal(t, "ALERTA-2025-014", b.RecallReference)

	// El lote retirado deja de ser elegible.
	avail, err := f.uc.Availability(context.Background(), companyID, "prod-1", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, avail.Available.Equal(dec("100")))
}

// Volver a ACTIVE limpia los metadatos de retiro/cuarentena.
func TestSetStatus_ReactivarLimpiaMetadatos(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status: entity.BatchStatusQuarantined,
		Reason: "revisión de cadena de frío",
	})
	require.NoError(t, err)

	resp, err := f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status: entity.BatchStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, resp.Status)

	b := f.store.Batches["b-pronto"]
	assert.Nil(t, b.QuarantineDate)
	assert.Empty(t, b.QuarantineReason)
}

// EXPIRED es derivado y no se asigna a mano; estados desconocidos tampoco.
func TestSetStatus_EstadosNoAsignables(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status: entity.BatchStatusExpired,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SetStatus(context.Background(), companyID, "b-pronto", dto.SetBatchStatusRequest{
		Status: "FROZEN",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
