package payments

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

// PaymentUseCase conciliación de pagos contra compras, ventas y créditos.
// Toda alta o baja de pago bloquea la fila del padre, inserta/elimina el pago
// y recalcula PaidAmount como suma de pagos vigentes en la misma transacción:
// el saldo nunca se ajusta incrementalmente, siempre se recalcula.
type PaymentUseCase struct {
	txRunner     TxRunner
	paymentRepo  repository.PaymentRepository
	purchaseRepo repository.PurchaseRepository
	saleRepo     repository.SaleRepository
	creditRepo   repository.CreditRepository
	customerRepo repository.CustomerRepository
	methodRepo   repository.PaymentMethodRepository
	now          func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner TxRunner,
	paymentRepo repository.PaymentRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	creditRepo repository.CreditRepository,
	customerRepo repository.CustomerRepository,
	methodRepo repository.PaymentMethodRepository,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:     txRunner,
		paymentRepo:  paymentRepo,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		methodRepo:   methodRepo,
		now:          time.Now,
	}
}

// Record registra un abono contra una compra, venta o crédito. Rechaza montos
// no positivos y sobrepagos (paid + amount > total). El PaidAmount del padre
// queda recalculado al confirmar la transacción.
func (uc *PaymentUseCase) Record(ctx context.Context, companyID, userID string, in dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if in.ParentID == "" || in.PaymentMethodID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	switch in.ParentType {
	case entity.PaymentParentPurchase, entity.PaymentParentSale, entity.PaymentParentCredit:
	default:
		return nil, domain.ErrInvalidInput
	}
	method, err := uc.methodRepo.GetByID(in.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, domain.ErrNotFound
	}
	if method.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.PaymentResponse
	err = uc.txRunner.RunPayment(ctx, func(
		paymentRepo repository.PaymentRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
		creditRepo repository.CreditRepository,
	) error {
		total, paid, err := lockParent(in.ParentType, in.ParentID, companyID, purchaseRepo, saleRepo, creditRepo)
		if err != nil {
			return err
		}
		if paid.Add(in.Amount).GreaterThan(total) {
			return domain.ErrInvalidInput
		}

		p := &entity.Payment{
			ID:              uuid.New().String(),
			CompanyID:       companyID,
			ParentType:      in.ParentType,
			ParentID:        in.ParentID,
			Amount:          in.Amount,
			Date:            date,
			ReferenceNumber: in.ReferenceNumber,
			PaymentMethodID: in.PaymentMethodID,
			Notes:           in.Notes,
			CreatedBy:       userID,
			CreatedAt:       now,
		}
		if err := paymentRepo.Create(p); err != nil {
			return err
		}

		newPaid, err := recomputeParent(in.ParentType, in.ParentID, now, paymentRepo, purchaseRepo, saleRepo, creditRepo)
		if err != nil {
			return err
		}
		resp = toPaymentResponse(p, newPaid, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete elimina un pago y recalcula el saldo del padre. Se rechaza con
// ErrDeleteRestricted cuando el padre ya cerró su ciclo: compra o venta
// COMPLETED, o crédito totalmente saldado.
func (uc *PaymentUseCase) Delete(ctx context.Context, companyID, paymentID string) error {
	p, err := uc.paymentRepo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return domain.ErrForbidden
	}

	return uc.txRunner.RunPayment(ctx, func(
		paymentRepo repository.PaymentRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
		creditRepo repository.CreditRepository,
	) error {
		switch p.ParentType {
		case entity.PaymentParentPurchase:
			parent, err := purchaseRepo.GetForUpdate(p.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domain.ErrNotFound
			}
			if parent.Status == entity.PurchaseStatusCompleted {
				return domain.ErrDeleteRestricted
			}
		case entity.PaymentParentSale:
			parent, err := saleRepo.GetForUpdate(p.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domain.ErrNotFound
			}
			if parent.Status == entity.SaleStatusCompleted {
				return domain.ErrDeleteRestricted
			}
		case entity.PaymentParentCredit:
			parent, err := creditRepo.GetForUpdate(p.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domain.ErrNotFound
			}
			if parent.IsFullyPaid() {
				return domain.ErrDeleteRestricted
			}
		default:
			return domain.ErrInvalidInput
		}

		if err := paymentRepo.Delete(p.ID); err != nil {
			return err
		}
		_, err := recomputeParent(p.ParentType, p.ParentID, uc.now(), paymentRepo, purchaseRepo, saleRepo, creditRepo)
		return err
	})
}

// ListByParent lista los pagos vigentes de un padre.
func (uc *PaymentUseCase) ListByParent(ctx context.Context, companyID, parentType, parentID string) ([]dto.PaymentResponse, error) {
	total, paid, err := uc.parentBalance(parentType, parentID, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.paymentRepo.ListByParent(parentType, parentID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, *toPaymentResponse(p, paid, total))
	}
	return resp, nil
}

// CreateCredit otorga un crédito independiente a un cliente, pagadero en
// abonos. Nace OPEN con PaidAmount cero.
func (uc *PaymentUseCase) CreateCredit(ctx context.Context, companyID string, in dto.CreateCreditRequest) (*dto.CreditResponse, error) {
	if in.CustomerID == "" || !in.TotalAmount.IsPositive() {
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

	now := uc.now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	c := &entity.Credit{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CustomerID:  in.CustomerID,
		Date:        date,
		TotalAmount: in.TotalAmount,
		PaidAmount:  decimal.Zero,
		Status:      entity.CreditStatusOpen,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.creditRepo.Create(c); err != nil {
		return nil, err
	}
	return toCreditResponse(c), nil
}

// GetCredit devuelve un crédito por id.
func (uc *PaymentUseCase) GetCredit(ctx context.Context, companyID, creditID string) (*dto.CreditResponse, error) {
	c, err := uc.creditRepo.GetByID(creditID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCreditResponse(c), nil
}

// ListCredits lista los créditos de un cliente.
func (uc *PaymentUseCase) ListCredits(ctx context.Context, companyID, customerID string, limit, offset int) ([]dto.CreditResponse, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	list, err := uc.creditRepo.ListByCustomer(customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CreditResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, *toCreditResponse(c))
	}
	return resp, nil
}

// lockParent bloquea la fila del padre y devuelve (total, pagado). Un crédito
// CANCELLED no admite pagos.
func lockParent(
	parentType, parentID, companyID string,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	creditRepo repository.CreditRepository,
) (total, paid decimal.Decimal, err error) {
	switch parentType {
	case entity.PaymentParentPurchase:
		p, err := purchaseRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if p == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if p.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		if p.Status == entity.PurchaseStatusCancelled {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidState
		}
		return p.TotalAmount, p.PaidAmount, nil
	case entity.PaymentParentSale:
		s, err := saleRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if s == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if s.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		if s.Status == entity.SaleStatusCancelled {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidState
		}
		return s.TotalAmount, s.PaidAmount, nil
	default:
		c, err := creditRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if c == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if c.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		if c.Status == entity.CreditStatusCancelled {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidState
		}
		return c.TotalAmount, c.PaidAmount, nil
	}
}

// recomputeParent fija PaidAmount del padre a la suma de sus pagos vigentes.
// Para créditos además deriva el estado: PAID al saldarse, OPEN si vuelve a
// quedar saldo pendiente.
func recomputeParent(
	parentType, parentID string,
	now time.Time,
	paymentRepo repository.PaymentRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	creditRepo repository.CreditRepository,
) (decimal.Decimal, error) {
	sum, err := paymentRepo.SumByParent(parentType, parentID)
	if err != nil {
		return decimal.Zero, err
	}
	switch parentType {
	case entity.PaymentParentPurchase:
		p, err := purchaseRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, err
		}
		if p == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		p.PaidAmount = sum
		p.UpdatedAt = now
		return sum, purchaseRepo.Update(p)
	case entity.PaymentParentSale:
		s, err := saleRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, err
		}
		if s == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		s.PaidAmount = sum
		s.UpdatedAt = now
		return sum, saleRepo.Update(s)
	default:
		c, err := creditRepo.GetForUpdate(parentID)
		if err != nil {
			return decimal.Zero, err
		}
		if c == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		c.PaidAmount = sum
		if c.Status != entity.CreditStatusCancelled {
			if c.IsFullyPaid() {
				c.Status = entity.CreditStatusPaid
			} else {
				c.Status = entity.CreditStatusOpen
			}
		}
		c.UpdatedAt = now
		return sum, creditRepo.Update(c)
	}
}

func (uc *PaymentUseCase) parentBalance(parentType, parentID, companyID string) (total, paid decimal.Decimal, err error) {
	switch parentType {
	case entity.PaymentParentPurchase:
		p, err := uc.purchaseRepo.GetByID(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if p == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if p.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		return p.TotalAmount, p.PaidAmount, nil
	case entity.PaymentParentSale:
		s, err := uc.saleRepo.GetByID(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if s == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if s.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		return s.TotalAmount, s.PaidAmount, nil
	case entity.PaymentParentCredit:
		c, err := uc.creditRepo.GetByID(parentID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if c == nil {
			return decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		if c.CompanyID != companyID {
			return decimal.Zero, decimal.Zero, domain.ErrForbidden
		}
		return c.TotalAmount, c.PaidAmount, nil
	default:
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
}

func toPaymentResponse(p *entity.Payment, parentPaid, parentTotal decimal.Decimal) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:               p.ID,
		ParentType:       p.ParentType,
		ParentID:         p.ParentID,
		Amount:           p.Amount,
		Date:             p.Date.Format("2006-01-02"),
		ReferenceNumber:  p.ReferenceNumber,
		PaymentMethodID:  p.PaymentMethodID,
		ParentPaidAmount: parentPaid,
		ParentTotal:      parentTotal,
		ParentBalance:    parentTotal.Sub(parentPaid),
	}
}

func toCreditResponse(c *entity.Credit) *dto.CreditResponse {
	return &dto.CreditResponse{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		Date:        c.Date.Format("2006-01-02"),
		TotalAmount: c.TotalAmount,
		PaidAmount:  c.PaidAmount,
		Status:      c.Status,
		Notes:       c.Notes,
	}
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", s)
}
