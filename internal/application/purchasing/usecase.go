package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// PurchaseUseCase máquina de estados de compras. La recepción (COMPLETED o
// PARTIALLY_RECEIVED) crea o incrementa lotes dentro de una sola transacción,
// con clave de idempotencia por línea para que un reintento no duplique stock.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	methodRepo   repository.PaymentMethodRepository
	postingRepo  repository.StockPostingRepository
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	methodRepo repository.PaymentMethodRepository,
	postingRepo repository.StockPostingRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		methodRepo:   methodRepo,
		postingRepo:  postingRepo,
		now:          time.Now,
	}
}

// Create crea una compra en PENDING con al menos una línea válida.
// Un paid_amount inicial materializa un pago (método de pago obligatorio).
func (uc *PurchaseUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || in.InvoiceNumber == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if existing, _ := uc.purchaseRepo.GetByInvoiceNumber(companyID, in.InvoiceNumber); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	purchaseID := uuid.New().String()
	items, total, err := uc.buildItems(companyID, purchaseID, in.Items)
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

	p := &entity.Purchase{
		ID:              purchaseID,
		CompanyID:       companyID,
		SupplierID:      in.SupplierID,
		InvoiceNumber:   in.InvoiceNumber,
		Date:            date,
		Status:          entity.PurchaseStatusPending,
		TotalAmount:     total,
		PaidAmount:      paid,
		PaymentMethodID: in.PaymentMethodID,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		_ repository.BatchRepository,
		_ repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		if err := purchaseRepo.Create(p, items); err != nil {
			return err
		}
		if paid.GreaterThan(decimal.Zero) {
			return paymentRepo.Create(&entity.Payment{
				ID:              uuid.New().String(),
				CompanyID:       companyID,
				ParentType:      entity.PaymentParentPurchase,
				ParentID:        p.ID,
				Amount:          paid,
				Date:            date,
				PaymentMethodID: in.PaymentMethodID,
				CreatedBy:       userID,
				CreatedAt:       now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p, items)
}

// Get obtiene la compra con sus líneas y totales.
func (uc *PurchaseUseCase) Get(ctx context.Context, companyID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.owned(companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.purchaseRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p, items)
}

// List lista compras de la empresa, opcionalmente por estado.
func (uc *PurchaseUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*dto.PurchaseResponse, error) {
	list, err := uc.purchaseRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items, err := uc.purchaseRepo.GetItems(p.ID)
		if err != nil {
			return nil, err
		}
		resp, err := uc.toResponse(p, items)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Update aplica edición de líneas, cambios de pago y transiciones de estado
// en una sola transacción. La edición de líneas se rechaza con la compra en
// estado terminal; las líneas ya recibidas son inmutables.
func (uc *PurchaseUseCase) Update(ctx context.Context, companyID, userID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	now := uc.now()
	var result *entity.Purchase
	var resultItems []*entity.PurchaseItem

	err := uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		batchRepo repository.BatchRepository,
		postingRepo repository.StockPostingRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		p, err := purchaseRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.CompanyID != companyID {
			return domain.ErrForbidden
		}

		items, err := purchaseRepo.GetItems(id)
		if err != nil {
			return err
		}

		// 1) Edición de líneas
		if len(in.Items) > 0 {
			if p.IsTerminal() {
				return domain.ErrInvalidState
			}
			items, err = uc.replaceItems(postingRepo, purchaseRepo, p, items, in.Items)
			if err != nil {
				return err
			}
			total := decimal.Zero
			for _, it := range items {
				total = total.Add(it.TotalCost)
			}
			if p.PaidAmount.GreaterThan(total) {
				return domain.ErrInvalidInput
			}
			p.TotalAmount = total
		}

		// 2) Cambio de paid_amount: solo aumentos; el delta se materializa
		// como pago. Bajar el monto pagado requiere eliminar pagos.
		if in.PaidAmount != nil {
			method := in.PaymentMethodID
			if method == "" {
				method = p.PaymentMethodID
			}
			delta := in.PaidAmount.Sub(p.PaidAmount)
			if delta.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			if delta.GreaterThan(decimal.Zero) {
				if in.PaidAmount.GreaterThan(p.TotalAmount) {
					return domain.ErrInvalidInput
				}
				if method == "" {
					return domain.ErrInvalidInput
				}
				if err := paymentRepo.Create(&entity.Payment{
					ID:              uuid.New().String(),
					CompanyID:       companyID,
					ParentType:      entity.PaymentParentPurchase,
					ParentID:        p.ID,
					Amount:          delta,
					Date:            now,
					PaymentMethodID: method,
					CreatedBy:       userID,
					CreatedAt:       now,
				}); err != nil {
					return err
				}
				p.PaidAmount = *in.PaidAmount
				p.PaymentMethodID = method
			}
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}

		// 3) Recepción y transición de estado. Las líneas nombradas se
		// contabilizan aunque el valor del estado no cambie: la segunda
		// tanda de una recepción parcial llega con la compra ya en
		// PARTIALLY_RECEIVED.
		statusChanges := in.Status != "" && in.Status != p.Status
		if statusChanges && !p.CanTransitionTo(in.Status) {
			return domain.ErrInvalidState
		}
		switch {
		case statusChanges && in.Status == entity.PurchaseStatusCancelled:
			// "primero reembolse o elimine los pagos"
			if p.PaidAmount.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidState
			}
		case in.Status == entity.PurchaseStatusPartiallyReceived:
			if len(in.ReceivedItemIDs) == 0 {
				return domain.ErrInvalidInput
			}
			if err := uc.receiveItems(batchRepo, postingRepo, p, items, in.ReceivedItemIDs, now); err != nil {
				return err
			}
		case statusChanges && in.Status == entity.PurchaseStatusCompleted:
			if err := uc.receiveItems(batchRepo, postingRepo, p, items, nil, now); err != nil {
				return err
			}
		}
		if statusChanges {
			p.Status = in.Status
		}

		p.UpdatedAt = now
		if err := purchaseRepo.Update(p); err != nil {
			return err
		}
		result = p
		resultItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(result, resultItems)
}

// receiveItems contabiliza la recepción de las líneas indicadas (todas si
// itemIDs es nil) creando o incrementando su lote. La clave en stock_postings
// hace cada línea independientemente contabilizable e idempotente: una
// recepción reintentada no incrementa dos veces.
func (uc *PurchaseUseCase) receiveItems(
	batchRepo repository.BatchRepository,
	postingRepo repository.StockPostingRepository,
	p *entity.Purchase,
	items []*entity.PurchaseItem,
	itemIDs []string,
	now time.Time,
) error {
	include := func(id string) bool {
		if itemIDs == nil {
			return true
		}
		for _, want := range itemIDs {
			if want == id {
				return true
			}
		}
		return false
	}
	matched := 0
	for _, item := range items {
		if !include(item.ID) {
			continue
		}
		matched++
		inserted, err := postingRepo.TryInsert(&entity.StockPosting{
			ID:            uuid.New().String(),
			TransactionID: p.ID,
			ReferenceID:   item.ID,
			Kind:          entity.PostingKindPurchaseReceipt,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
		if !inserted {
			continue // línea ya recibida en un intento anterior
		}
		b, err := batchRepo.GetByProductAndNumberForUpdate(item.ProductID, item.BatchNumber)
		if err != nil {
			return err
		}
		if b == nil {
			if err := batchRepo.Create(&entity.Batch{
				ID:                uuid.New().String(),
				CompanyID:         p.CompanyID,
				ProductID:         item.ProductID,
				SupplierID:        p.SupplierID,
				BatchNumber:       item.BatchNumber,
				ManufacturingDate: item.ManufacturingDate,
				ExpiryDate:        item.ExpiryDate,
				Quantity:          item.Quantity,
				PurchasePrice:     item.UnitCost,
				SellingPrice:      item.SellingPrice,
				Status:            entity.BatchStatusActive,
				CreatedAt:         now,
				UpdatedAt:         now,
			}); err != nil {
				return err
			}
			continue
		}
		// La recepción solo suma cantidades; la última recepción gobierna precios.
		b.Quantity = b.Quantity.Add(item.Quantity)
		b.PurchasePrice = item.UnitCost
		b.SellingPrice = item.SellingPrice
		b.UpdatedAt = now
		if err := batchRepo.Update(b); err != nil {
			return err
		}
	}
	if itemIDs != nil && matched != len(itemIDs) {
		return domain.ErrNotFound
	}
	return nil
}

// replaceItems valida la nueva lista de líneas conservando intactas las ya
// recibidas (mismo ID y mismos valores) y persiste el reemplazo.
func (uc *PurchaseUseCase) replaceItems(
	postingRepo repository.StockPostingRepository,
	purchaseRepo repository.PurchaseRepository,
	p *entity.Purchase,
	current []*entity.PurchaseItem,
	reqs []dto.PurchaseItemRequest,
) ([]*entity.PurchaseItem, error) {
	next, _, err := uc.buildItemsKeepIDs(p.CompanyID, p.ID, reqs)
	if err != nil {
		return nil, err
	}
	nextByID := make(map[string]*entity.PurchaseItem, len(next))
	for _, it := range next {
		nextByID[it.ID] = it
	}
	for _, old := range current {
		posted, err := postingRepo.Exists(p.ID, old.ID, entity.PostingKindPurchaseReceipt)
		if err != nil {
			return nil, err
		}
		if !posted {
			continue
		}
		repl, ok := nextByID[old.ID]
		if !ok || repl.ProductID != old.ProductID || repl.BatchNumber != old.BatchNumber ||
			!repl.Quantity.Equal(old.Quantity) || !repl.UnitCost.Equal(old.UnitCost) {
			return nil, domain.ErrInvalidState // línea ya recibida: inmutable
		}
	}
	if err := purchaseRepo.ReplaceItems(p.ID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (uc *PurchaseUseCase) buildItems(companyID, purchaseID string, reqs []dto.PurchaseItemRequest) ([]*entity.PurchaseItem, decimal.Decimal, error) {
	for i := range reqs {
		reqs[i].ID = "" // alta: ignora IDs del caller
	}
	return uc.buildItemsKeepIDs(companyID, purchaseID, reqs)
}

func (uc *PurchaseUseCase) buildItemsKeepIDs(companyID, purchaseID string, reqs []dto.PurchaseItemRequest) ([]*entity.PurchaseItem, decimal.Decimal, error) {
	items := make([]*entity.PurchaseItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		if r.ProductID == "" || r.BatchNumber == "" || !r.Quantity.GreaterThan(decimal.Zero) || r.UnitCost.LessThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(r.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, decimal.Zero, domain.ErrForbidden
		}
		expiry, err := parseDate(r.ExpiryDate, time.Time{})
		if err != nil || expiry.IsZero() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		var mfg *time.Time
		if r.ManufacturingDate != "" {
			d, err := parseDate(r.ManufacturingDate, time.Time{})
			if err != nil {
				return nil, decimal.Zero, domain.ErrInvalidInput
			}
			mfg = &d
		}
		selling := product.Price
		if r.SellingPrice != nil {
			if r.SellingPrice.LessThan(decimal.Zero) {
				return nil, decimal.Zero, domain.ErrInvalidInput
			}
			selling = *r.SellingPrice
		}
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		item := &entity.PurchaseItem{
			ID:                id,
			PurchaseID:        purchaseID,
			ProductID:         r.ProductID,
			BatchNumber:       r.BatchNumber,
			ExpiryDate:        expiry,
			ManufacturingDate: mfg,
			Quantity:          r.Quantity,
			UnitCost:          r.UnitCost,
			SellingPrice:      selling,
			TotalCost:         r.Quantity.Mul(r.UnitCost),
		}
		items = append(items, item)
		total = total.Add(item.TotalCost)
	}
	return items, total, nil
}

func (uc *PurchaseUseCase) validatePaid(companyID string, paid, total decimal.Decimal, methodID string) error {
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

func (uc *PurchaseUseCase) owned(companyID, id string) (*entity.Purchase, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *PurchaseUseCase) toResponse(p *entity.Purchase, items []*entity.PurchaseItem) (*dto.PurchaseResponse, error) {
	resp := &dto.PurchaseResponse{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		InvoiceNumber:   p.InvoiceNumber,
		Date:            p.Date.Format("2006-01-02"),
		Status:          p.Status,
		TotalAmount:     p.TotalAmount,
		PaidAmount:      p.PaidAmount,
		PaymentMethodID: p.PaymentMethodID,
		Notes:           p.Notes,
		Items:           make([]dto.PurchaseItemResponse, 0, len(items)),
	}
	for _, it := range items {
		received, err := uc.postingRepo.Exists(p.ID, it.ID, entity.PostingKindPurchaseReceipt)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			BatchNumber:  it.BatchNumber,
			ExpiryDate:   it.ExpiryDate.Format("2006-01-02"),
			Quantity:     it.Quantity,
			UnitCost:     it.UnitCost,
			SellingPrice: it.SellingPrice,
			TotalCost:    it.TotalCost,
			Received:     received,
		})
	}
	return resp, nil
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", s)
}
