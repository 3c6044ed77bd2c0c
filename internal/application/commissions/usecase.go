package commissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// CommissionUseCase consulta y pago de comisiones, y administración de sus
// configuraciones. El cálculo ocurre al completar la venta; aquí solo se
// gestiona el ciclo de vida posterior.
type CommissionUseCase struct {
	commissionRepo  repository.CommissionRepository
	configRepo      repository.CommissionConfigRepository
	salespersonRepo repository.SalespersonRepository
	categoryRepo    repository.CategoryRepository
	now             func() time.Time
}

// NewCommissionUseCase construye el caso de uso.
func NewCommissionUseCase(
	commissionRepo repository.CommissionRepository,
	configRepo repository.CommissionConfigRepository,
	salespersonRepo repository.SalespersonRepository,
	categoryRepo repository.CategoryRepository,
) *CommissionUseCase {
	return &CommissionUseCase{
		commissionRepo:  commissionRepo,
		configRepo:      configRepo,
		salespersonRepo: salespersonRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// Get devuelve una comisión por id.
func (uc *CommissionUseCase) Get(ctx context.Context, companyID, id string) (*dto.CommissionResponse, error) {
	c, err := uc.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCommissionResponse(c), nil
}

// List lista comisiones con filtros opcionales por estado y vendedor.
func (uc *CommissionUseCase) List(ctx context.Context, companyID, status, salespersonID string, limit, offset int) ([]dto.CommissionResponse, error) {
	list, err := uc.commissionRepo.ListByCompany(companyID, status, salespersonID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CommissionResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, *toCommissionResponse(c))
	}
	return resp, nil
}

// Pay marca una comisión PENDING como PAID con fecha de pago. Una comisión ya
// pagada o cancelada no admite la transición.
func (uc *CommissionUseCase) Pay(ctx context.Context, companyID, id string, in dto.PayCommissionRequest) (*dto.CommissionResponse, error) {
	c, err := uc.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if c.Status != entity.CommissionStatusPending {
		return nil, domain.ErrInvalidState
	}

	now := uc.now()
	paidDate := now
	if in.PaidDate != "" {
		paidDate, err = time.Parse("2006-01-02", in.PaidDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	c.Status = entity.CommissionStatusPaid
	c.PaidDate = &paidDate
	if in.Notes != "" {
		c.Notes = in.Notes
	}
	c.UpdatedAt = now
	if err := uc.commissionRepo.Update(c); err != nil {
		return nil, err
	}
	return toCommissionResponse(c), nil
}

// CreateConfig crea una configuración de comisión. Valida el tipo, la tasa y
// la pertenencia del vendedor/categoría referenciados a la empresa.
func (uc *CommissionUseCase) CreateConfig(ctx context.Context, companyID string, in dto.CreateCommissionConfigRequest) (*dto.CommissionConfigResponse, error) {
	switch in.Type {
	case entity.CommissionTypePercentage, entity.CommissionTypeFixed, entity.CommissionTypeTiered:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Rate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinSaleAmount != nil && in.MinSaleAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxCommission != nil && !in.MaxCommission.IsPositive() {
		return nil, domain.ErrInvalidInput
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
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
		if cat.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	now := uc.now()
	cfg := &entity.CommissionConfig{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		SalespersonID: in.SalespersonID,
		CategoryID:    in.CategoryID,
		Type:          in.Type,
		Rate:          in.Rate,
		MinSaleAmount: in.MinSaleAmount,
		MaxCommission: in.MaxCommission,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.configRepo.Create(cfg); err != nil {
		return nil, err
	}
	return toConfigResponse(cfg), nil
}

// ListConfigs lista las configuraciones de comisión de la empresa.
func (uc *CommissionUseCase) ListConfigs(ctx context.Context, companyID string, limit, offset int) ([]dto.CommissionConfigResponse, error) {
	list, err := uc.configRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CommissionConfigResponse, 0, len(list))
	for _, cfg := range list {
		resp = append(resp, *toConfigResponse(cfg))
	}
	return resp, nil
}

func toCommissionResponse(c *entity.Commission) *dto.CommissionResponse {
	resp := &dto.CommissionResponse{
		ID:            c.ID,
		SaleID:        c.SaleID,
		SalespersonID: c.SalespersonID,
		SaleAmount:    c.SaleAmount,
		Rate:          c.Rate,
		Amount:        c.Amount,
		Status:        c.Status,
		Notes:         c.Notes,
	}
	if c.PaidDate != nil {
		resp.PaidDate = c.PaidDate.Format("2006-01-02")
	}
	return resp
}

func toConfigResponse(cfg *entity.CommissionConfig) *dto.CommissionConfigResponse {
	return &dto.CommissionConfigResponse{
		ID:            cfg.ID,
		SalespersonID: cfg.SalespersonID,
		CategoryID:    cfg.CategoryID,
		Type:          cfg.Type,
		Rate:          cfg.Rate,
		MinSaleAmount: cfg.MinSaleAmount,
		MaxCommission: cfg.MaxCommission,
		Active:        cfg.Active,
	}
}
