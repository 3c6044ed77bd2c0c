package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
	domcommission "github.com/farmatic/botica-api/internal/domain/commission"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// SaleUseCase máquina de estados de ventas. Completar una venta descuenta
// los lotes de cada línea bajo bloqueo de fila y calcula la comisión del
// vendedor en la misma transacción; cancelarla restaura exactamente lo
// descontado y cancela la comisión no pagada.
type SaleUseCase struct {
	txRunner        TxRunner
	saleRepo        repository.SaleRepository
	batchRepo       repository.BatchRepository
	customerRepo    repository.CustomerRepository
	salespersonRepo repository.SalespersonRepository
	productRepo     repository.ProductRepository
	methodRepo      repository.PaymentMethodRepository
	commissionRepo  repository.CommissionRepository
	now             func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	customerRepo repository.CustomerRepository,
	salespersonRepo repository.SalespersonRepository,
	productRepo repository.ProductRepository,
	methodRepo repository.PaymentMethodRepository,
	commissionRepo repository.CommissionRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:        txRunner,
		saleRepo:        saleRepo,
		batchRepo:       batchRepo,
		customerRepo:    customerRepo,
		salespersonRepo: salespersonRepo,
		productRepo:     productRepo,
		methodRepo:      methodRepo,
		commissionRepo:  commissionRepo,
		now:             time.Now,
	}
}

// Create crea una venta en PENDING (sin mutación de stock: las cantidades no
// se reservan) o directamente COMPLETED, descontando lotes en la misma
// transacción. Cada línea nombra el lote elegido por el caller, normalmente
// preseleccionado vía el endpoint de disponibilidad FEFO.
func (uc *SaleUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.SaleStatusPending
	}
	if status != entity.SaleStatusPending && status != entity.SaleStatusCompleted {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.SalespersonID != "" {
		sp, err := uc.salespersonRepo.GetByID(in.SalespersonID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, domain.ErrNotFound
		}
		if sp.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	now := uc.now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	saleID := uuid.New().String()
	items, total, err := uc.buildItems(companyID, saleID, in.Items)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	if in.PaidAmount != nil {
		paid = *in.PaidAmount
	}
	if err := uc.validatePaid(companyID, paid, total, in.PaymentMethodID); err != nil {
		return nil, err
	}

	s := &entity.Sale{
		ID:              saleID,
		CompanyID:       companyID,
		CustomerID:      in.CustomerID,
		SalespersonID:   in.SalespersonID,
		Date:            date,
		Status:          entity.SaleStatusPending,
		TotalAmount:     total,
		PaidAmount:      paid,
		PaymentMethodID: in.PaymentMethodID,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		commissionRepo repository.CommissionRepository,
		configRepo repository.CommissionConfigRepository,
		postingRepo repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		if err := saleRepo.Create(s, items); err != nil {
			return err
		}
		if paid.GreaterThan(decimal.Zero) {
			if err := paymentRepo.Create(&entity.Payment{
				ID:              uuid.New().String(),
				CompanyID:       companyID,
				ParentType:      entity.PaymentParentSale,
				ParentID:        s.ID,
				Amount:          paid,
				Date:            date,
				PaymentMethodID: in.PaymentMethodID,
				CreatedBy:       userID,
				CreatedAt:       now,
			}); err != nil {
				return err
			}
		}
		if status == entity.SaleStatusCompleted {
			if err := uc.completeLocked(saleRepo, batchRepo, commissionRepo, configRepo, postingRepo, s, items, now); err != nil {
				return err
			}
			// completeLocked solo muta la entidad; la fila se creó en PENDING.
			if err := saleRepo.Update(s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(s, items, false)
}

// Get obtiene la venta con sus líneas y totales.
func (uc *SaleUseCase) Get(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	s, err := uc.owned(companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(s, items, false)
}

// List lista ventas de la empresa, opcionalmente por estado.
func (uc *SaleUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*dto.SaleResponse, error) {
	list, err := uc.saleRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items, err := uc.saleRepo.GetItems(s.ID)
		if err != nil {
			return nil, err
		}
		resp, err := uc.toResponse(s, items, false)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Update aplica edición de líneas (solo PENDING), cambios de pago/notas y
// transiciones de estado en una sola transacción. Las líneas de una venta
// completada son inmutables: la única operación post-completado que afecta
// inventario es la cancelación, y opera sobre lotes, no sobre líneas.
func (uc *SaleUseCase) Update(ctx context.Context, companyID, userID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	now := uc.now()
	var result *entity.Sale
	var resultItems []*entity.SaleItem
	paidCommissionLeft := false

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.BatchRepository,
		commissionRepo repository.CommissionRepository,
		configRepo repository.CommissionConfigRepository,
		postingRepo repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		s, err := saleRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if s.IsTerminal() {
			// CANCELLED es terminal: solo notas.
			if in.Status != "" || len(in.Items) > 0 || in.PaidAmount != nil || in.SalespersonID != nil {
				return domain.ErrInvalidState
			}
		}

		items, err := saleRepo.GetItems(id)
		if err != nil {
			return err
		}

		// 1) Edición de líneas y vendedor: solo en PENDING.
		if len(in.Items) > 0 {
			if s.Status != entity.SaleStatusPending {
				return domain.ErrInvalidState
			}
			items, s.TotalAmount, err = uc.buildItems(companyID, s.ID, in.Items)
			if err != nil {
				return err
			}
			if s.PaidAmount.GreaterThan(s.TotalAmount) {
				return domain.ErrInvalidInput
			}
			if err := saleRepo.ReplaceItems(s.ID, items); err != nil {
				return err
			}
		}
		if in.SalespersonID != nil {
			if s.Status != entity.SaleStatusPending {
				return domain.ErrInvalidState
			}
			if *in.SalespersonID != "" {
				sp, err := uc.salespersonRepo.GetByID(*in.SalespersonID)
				if err != nil {
					return err
				}
				if sp == nil {
					return domain.ErrNotFound
				}
				if sp.CompanyID != companyID {
					return domain.ErrForbidden
				}
			}
			s.SalespersonID = *in.SalespersonID
		}

		// 2) Cambio de paid_amount: solo aumentos, materializados como pago.
		if in.PaidAmount != nil {
			method := in.PaymentMethodID
			if method == "" {
				method = s.PaymentMethodID
			}
			delta := in.PaidAmount.Sub(s.PaidAmount)
			if delta.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			if delta.GreaterThan(decimal.Zero) {
				if in.PaidAmount.GreaterThan(s.TotalAmount) || method == "" {
					return domain.ErrInvalidInput
				}
				if err := paymentRepo.Create(&entity.Payment{
					ID:              uuid.New().String(),
					CompanyID:       companyID,
					ParentType:      entity.PaymentParentSale,
					ParentID:        s.ID,
					Amount:          delta,
					Date:            now,
					PaymentMethodID: method,
					CreatedBy:       userID,
					CreatedAt:       now,
				}); err != nil {
					return err
				}
				s.PaidAmount = *in.PaidAmount
				s.PaymentMethodID = method
			}
		}
		if in.Notes != nil {
			s.Notes = *in.Notes
		}

		// 3) Transición de estado. Completar una venta ya COMPLETED es un
		// no-op idempotente (reintento del caller), no un error.
		if in.Status != "" && in.Status != s.Status {
			if !s.CanTransitionTo(in.Status) {
				return domain.ErrInvalidState
			}
			switch in.Status {
			case entity.SaleStatusCompleted:
				if err := uc.completeLocked(saleRepo, batchRepo, commissionRepo, configRepo, postingRepo, s, items, now); err != nil {
					return err
				}
			case entity.SaleStatusCancelled:
				left, err := uc.cancelLocked(batchRepo, commissionRepo, postingRepo, s, items, now)
				if err != nil {
					return err
				}
				paidCommissionLeft = left
				s.Status = entity.SaleStatusCancelled
			}
		}

		s.UpdatedAt = now
		if err := saleRepo.Update(s); err != nil {
			return err
		}
		result = s
		resultItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(result, resultItems, paidCommissionLeft)
}

// completeLocked descuenta cada lote bajo SELECT FOR UPDATE y crea la
// comisión. La clave SALE_COMPLETION en stock_postings hace el efecto
// idempotente por venta: un reintento no descuenta dos veces. La elegibilidad
// se revalida aquí (el decremento es el punto de verdad): un lote retirado,
// en cuarentena o vencido desde la asignación cuenta como disponible cero.
func (uc *SaleUseCase) completeLocked(
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	commissionRepo repository.CommissionRepository,
	configRepo repository.CommissionConfigRepository,
	postingRepo repository.StockPostingRepository,
	s *entity.Sale,
	items []*entity.SaleItem,
	now time.Time,
) error {
	inserted, err := postingRepo.TryInsert(&entity.StockPosting{
		ID:            uuid.New().String(),
		TransactionID: s.ID,
		Kind:          entity.PostingKindSaleCompletion,
		CreatedAt:     now,
	})
	if err != nil {
		return err
	}
	if !inserted {
		s.Status = entity.SaleStatusCompleted
		return nil // efecto ya contabilizado por un intento anterior
	}

	for _, item := range items {
		b, err := batchRepo.GetForUpdate(item.BatchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		available := b.Quantity
		if !b.IsEligible(now) {
			available = decimal.Zero
		}
		if available.LessThan(item.Quantity) {
			return &domain.InsufficientStockError{
				ProductID: item.ProductID,
				BatchID:   item.BatchID,
				Requested: item.Quantity,
				Available: available,
			}
		}
		b.Quantity = b.Quantity.Sub(item.Quantity)
		b.UpdatedAt = now
		if err := batchRepo.Update(b); err != nil {
			return err
		}
	}
	s.Status = entity.SaleStatusCompleted

	return uc.createCommission(commissionRepo, configRepo, s, items, now)
}

// createCommission resuelve la configuración aplicable por especificidad de
// alcance y crea la comisión en PENDING. CreateIfAbsent (único por venta)
// garantiza que re-completar no duplique la fila.
func (uc *SaleUseCase) createCommission(
	commissionRepo repository.CommissionRepository,
	configRepo repository.CommissionConfigRepository,
	s *entity.Sale,
	items []*entity.SaleItem,
	now time.Time,
) error {
	if s.SalespersonID == "" {
		return nil
	}
	configs, err := configRepo.ListActiveByCompany(s.CompanyID)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		return nil
	}
	productIDs := make([]string, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	categories, err := uc.productRepo.GetCategoryIDs(productIDs)
	if err != nil {
		return err
	}
	amounts := make([]domcommission.ItemAmount, 0, len(items))
	for _, it := range items {
		amounts = append(amounts, domcommission.ItemAmount{
			CategoryID: categories[it.ProductID],
			Amount:     it.Total,
		})
	}
	result := domcommission.Calculate(s.SalespersonID, s.TotalAmount, amounts, configs)
	if result == nil {
		return nil
	}
	_, err = commissionRepo.CreateIfAbsent(&entity.Commission{
		ID:            uuid.New().String(),
		CompanyID:     s.CompanyID,
		SaleID:        s.ID,
		SalespersonID: s.SalespersonID,
		SaleAmount:    s.TotalAmount,
		Rate:          result.Rate,
		Amount:        result.Amount,
		Status:        entity.CommissionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	return err
}

// cancelLocked restaura exactamente lo descontado (si la venta estaba
// COMPLETED) y cancela la comisión asociada no pagada. Una comisión PAID no
// se reversa: se reporta para resolución manual.
func (uc *SaleUseCase) cancelLocked(
	batchRepo repository.BatchRepository,
	commissionRepo repository.CommissionRepository,
	postingRepo repository.StockPostingRepository,
	s *entity.Sale,
	items []*entity.SaleItem,
	now time.Time,
) (bool, error) {
	if s.Status != entity.SaleStatusCompleted {
		return false, nil // PENDING -> CANCELLED: no hay stock que restaurar
	}
	inserted, err := postingRepo.TryInsert(&entity.StockPosting{
		ID:            uuid.New().String(),
		TransactionID: s.ID,
		Kind:          entity.PostingKindSaleCancellation,
		CreatedAt:     now,
	})
	if err != nil {
		return false, err
	}
	if inserted {
		for _, item := range items {
			b, err := batchRepo.GetForUpdate(item.BatchID)
			if err != nil {
				return false, err
			}
			if b == nil {
				return false, domain.ErrNotFound // los lotes referenciados nunca se borran
			}
			b.Quantity = b.Quantity.Add(item.Quantity)
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return false, err
			}
		}
	}

	com, err := commissionRepo.GetBySaleID(s.ID)
	if err != nil {
		return false, err
	}
	if com == nil {
		return false, nil
	}
	if com.Status == entity.CommissionStatusPaid {
		return true, nil
	}
	if com.Status != entity.CommissionStatusCancelled {
		com.Status = entity.CommissionStatusCancelled
		com.UpdatedAt = now
		if err := commissionRepo.Update(com); err != nil {
			return false, err
		}
	}
	return false, nil
}

// buildItems valida las líneas contra sus lotes (producto y empresa
// coherentes) y calcula totales. No reserva cantidades: la venta PENDING no
// muta stock y la cantidad se revalida al completar.
func (uc *SaleUseCase) buildItems(companyID, saleID string, reqs []dto.SaleItemRequest) ([]*entity.SaleItem, decimal.Decimal, error) {
	items := make([]*entity.SaleItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		if r.ProductID == "" || r.BatchID == "" || !r.Quantity.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		b, err := uc.batchRepo.GetByID(r.BatchID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if b == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		if b.CompanyID != companyID {
			return nil, decimal.Zero, domain.ErrForbidden
		}
		if b.ProductID != r.ProductID {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		price := b.SellingPrice
		if r.UnitPrice != nil {
			if r.UnitPrice.LessThan(decimal.Zero) {
				return nil, decimal.Zero, domain.ErrInvalidInput
			}
			price = *r.UnitPrice
		}
		lineTotal := r.Quantity.Mul(price).Sub(r.Discount)
		if r.Discount.LessThan(decimal.Zero) || lineTotal.LessThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		item := &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: r.ProductID,
			BatchID:   r.BatchID,
			Quantity:  r.Quantity,
			UnitPrice: price,
			Discount:  r.Discount,
			Total:     lineTotal,
		}
		items = append(items, item)
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

func (uc *SaleUseCase) validatePaid(companyID string, paid, total decimal.Decimal, methodID string) error {
	if paid.LessThan(decimal.Zero) || paid.GreaterThan(total) {
		return domain.ErrInvalidInput
	}
	if paid.GreaterThan(decimal.Zero) {
		if methodID == "" {
			return domain.ErrInvalidInput
		}
		method, err := uc.methodRepo.GetByID(methodID)
		if err != nil {
			return err
		}
		if method == nil {
			return domain.ErrNotFound
		}
		if method.CompanyID != companyID {
			return domain.ErrForbidden
		}
	}
	return nil
}

func (uc *SaleUseCase) owned(companyID, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

func (uc *SaleUseCase) toResponse(s *entity.Sale, items []*entity.SaleItem, paidCommissionLeft bool) (*dto.SaleResponse, error) {
	resp := &dto.SaleResponse{
		ID:              s.ID,
		CustomerID:      s.CustomerID,
		SalespersonID:   s.SalespersonID,
		Date:            s.Date.Format("2006-01-02"),
		Status:          s.Status,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
		PaymentMethodID: s.PaymentMethodID,
		Notes:           s.Notes,
		Items:           make([]dto.SaleItemResponse, 0, len(items)),
		PaidCommission:  paidCommissionLeft,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			BatchID:   it.BatchID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}
	if com, err := uc.commissionRepo.GetBySaleID(s.ID); err == nil && com != nil {
		resp.CommissionID = com.ID
	}
	return resp, nil
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", s)
}
