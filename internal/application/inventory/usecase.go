package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/allocation"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// BatchUseCase operaciones de lectura y de estado sobre lotes. Las mutaciones
// de cantidad nunca pasan por aquí: solo ocurren dentro de las transacciones
// de recepción de compra y de completar/cancelar venta.
type BatchUseCase struct {
	batchRepo   repository.BatchRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(batchRepo repository.BatchRepository, productRepo repository.ProductRepository) *BatchUseCase {
	return &BatchUseCase{batchRepo: batchRepo, productRepo: productRepo, now: time.Now}
}

// ListByProduct lista todos los lotes de un producto con su estado efectivo.
func (uc *BatchUseCase) ListByProduct(ctx context.Context, companyID, productID string) ([]dto.BatchResponse, error) {
	if _, err := uc.ownedProduct(companyID, productID); err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToBatchResponse(b, now))
	}
	return out, nil
}

// Availability devuelve los lotes elegibles en orden FEFO y, si quantity > 0,
// la partición sugerida por el asignador. La lectura no bloquea filas: la
// elegibilidad se revalida en el decremento al completar la venta.
func (uc *BatchUseCase) Availability(ctx context.Context, companyID, productID string, quantity decimal.Decimal) (*dto.AvailabilityResponse, error) {
	if _, err := uc.ownedProduct(companyID, productID); err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListEligible(productID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	resp := &dto.AvailabilityResponse{
		ProductID: productID,
		Available: decimal.Zero,
		Batches:   make([]dto.BatchResponse, 0, len(batches)),
	}
	byID := make(map[string]*entity.Batch, len(batches))
	for _, b := range batches {
		resp.Available = resp.Available.Add(b.Quantity)
		resp.Batches = append(resp.Batches, ToBatchResponse(b, now))
		byID[b.ID] = b
	}
	if quantity.GreaterThan(decimal.Zero) {
		lines, err := allocation.Allocate(productID, quantity, batches, now)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			b := byID[line.BatchID]
			resp.Allocation = append(resp.Allocation, dto.AllocationLineResponse{
				BatchID:      b.ID,
				BatchNumber:  b.BatchNumber,
				ExpiryDate:   b.ExpiryDate.Format("2006-01-02"),
				Quantity:     line.Quantity,
				SellingPrice: b.SellingPrice,
			})
		}
	}
	return resp, nil
}

// SetStatus gobierna las transiciones RECALLED/QUARANTINED/DAMAGED/RETURNED.
// Registrar un retiro o cuarentena exige motivo; volver a ACTIVE limpia los
// metadatos (des-marcado explícito). EXPIRED no es asignable: se deriva de la
// fecha de vencimiento.
func (uc *BatchUseCase) SetStatus(ctx context.Context, companyID, batchID string, in dto.SetBatchStatusRequest) (*dto.BatchResponse, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	switch in.Status {
	case entity.BatchStatusRecalled:
		if in.Reason == "" {
			return nil, domain.ErrInvalidInput
		}
		b.Status = entity.BatchStatusRecalled
		b.RecallDate = &now
		b.RecallReason = in.Reason
		b.RecallReference = in.Reference
	case entity.BatchStatusQuarantined:
		if in.Reason == "" {
			return nil, domain.ErrInvalidInput
		}
		b.Status = entity.BatchStatusQuarantined
		b.QuarantineDate = &now
		b.QuarantineReason = in.Reason
	case entity.BatchStatusDamaged, entity.BatchStatusReturned:
		b.Status = in.Status
	case entity.BatchStatusActive:
		b.Status = entity.BatchStatusActive
		b.RecallDate = nil
		b.RecallReason = ""
		b.RecallReference = ""
		b.QuarantineDate = nil
		b.QuarantineReason = ""
	default:
		return nil, domain.ErrInvalidInput
	}
	b.UpdatedAt = now
	if err := uc.batchRepo.Update(b); err != nil {
		return nil, err
	}
	resp := ToBatchResponse(b, now)
	return &resp, nil
}

func (uc *BatchUseCase) ownedProduct(companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// ToBatchResponse mapea el lote a su DTO con el estado efectivo a la fecha.
func ToBatchResponse(b *entity.Batch, now time.Time) dto.BatchResponse {
	resp := dto.BatchResponse{
		ID:               b.ID,
		ProductID:        b.ProductID,
		SupplierID:       b.SupplierID,
		BatchNumber:      b.BatchNumber,
		ExpiryDate:       b.ExpiryDate.Format("2006-01-02"),
		Quantity:         b.Quantity,
		PurchasePrice:    b.PurchasePrice,
		SellingPrice:     b.SellingPrice,
		Status:           b.EffectiveStatus(now),
		RecallReason:     b.RecallReason,
		QuarantineReason: b.QuarantineReason,
	}
	if b.ManufacturingDate != nil {
		resp.ManufacturingDate = b.ManufacturingDate.Format("2006-01-02")
	}
	return resp
}
