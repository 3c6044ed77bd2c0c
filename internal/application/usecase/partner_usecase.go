package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// PartnerUseCase altas y listados del catálogo de terceros: proveedores,
// clientes, vendedores, métodos de pago y categorías.
type PartnerUseCase struct {
	supplierRepo    repository.SupplierRepository
	customerRepo    repository.CustomerRepository
	salespersonRepo repository.SalespersonRepository
	methodRepo      repository.PaymentMethodRepository
	categoryRepo    repository.CategoryRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	salespersonRepo repository.SalespersonRepository,
	methodRepo repository.PaymentMethodRepository,
	categoryRepo repository.CategoryRepository,
) *PartnerUseCase {
	return &PartnerUseCase{
		supplierRepo:    supplierRepo,
		customerRepo:    customerRepo,
		salespersonRepo: salespersonRepo,
		methodRepo:      methodRepo,
		categoryRepo:    categoryRepo,
	}
}

// CreateSupplier crea un proveedor.
func (uc *PartnerUseCase) CreateSupplier(companyID string, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return &dto.PartnerResponse{ID: s.ID, Name: s.Name, TaxID: s.TaxID, Email: s.Email, Phone: s.Phone}, nil
}

// ListSuppliers lista los proveedores de la empresa.
func (uc *PartnerUseCase) ListSuppliers(companyID string, limit, offset int) ([]dto.PartnerResponse, error) {
	list, err := uc.supplierRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PartnerResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, dto.PartnerResponse{ID: s.ID, Name: s.Name, TaxID: s.TaxID, Email: s.Email, Phone: s.Phone})
	}
	return resp, nil
}

// CreateCustomer crea un cliente. El TaxID es único por empresa.
func (uc *PartnerUseCase) CreateCustomer(companyID string, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TaxID != "" {
		existing, _ := uc.customerRepo.GetByCompanyAndTaxID(companyID, in.TaxID)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(c); err != nil {
		return nil, err
	}
	return &dto.PartnerResponse{ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone}, nil
}

// ListCustomers lista los clientes de la empresa.
func (uc *PartnerUseCase) ListCustomers(companyID string, limit, offset int) ([]dto.PartnerResponse, error) {
	list, err := uc.customerRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PartnerResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.PartnerResponse{ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone})
	}
	return resp, nil
}

// CreateSalesperson crea un vendedor activo.
func (uc *PartnerUseCase) CreateSalesperson(companyID string, in dto.CreateSalespersonRequest) (*dto.SalespersonResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	sp := &entity.Salesperson{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Code:      in.Code,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.salespersonRepo.Create(sp); err != nil {
		return nil, err
	}
	return &dto.SalespersonResponse{ID: sp.ID, Name: sp.Name, Code: sp.Code, Active: sp.Active}, nil
}

// ListSalespersons lista los vendedores de la empresa.
func (uc *PartnerUseCase) ListSalespersons(companyID string, limit, offset int) ([]dto.SalespersonResponse, error) {
	list, err := uc.salespersonRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SalespersonResponse, 0, len(list))
	for _, sp := range list {
		resp = append(resp, dto.SalespersonResponse{ID: sp.ID, Name: sp.Name, Code: sp.Code, Active: sp.Active})
	}
	return resp, nil
}

// CreatePaymentMethod crea un método de pago activo.
func (uc *PartnerUseCase) CreatePaymentMethod(companyID string, in dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodTransfer, entity.PaymentMethodCredit:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.PaymentMethod{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Kind:      in.Kind,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.methodRepo.Create(m); err != nil {
		return nil, err
	}
	return &dto.PaymentMethodResponse{ID: m.ID, Name: m.Name, Kind: m.Kind, Active: m.Active}, nil
}

// ListPaymentMethods lista los métodos de pago de la empresa.
func (uc *PartnerUseCase) ListPaymentMethods(companyID string, limit, offset int) ([]dto.PaymentMethodResponse, error) {
	list, err := uc.methodRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentMethodResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.PaymentMethodResponse{ID: m.ID, Name: m.Name, Kind: m.Kind, Active: m.Active})
	}
	return resp, nil
}

// CreateCategory crea una categoría de productos.
func (uc *PartnerUseCase) CreateCategory(companyID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Code:      in.Code,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Code: c.Code, Status: c.Status}, nil
}

// ListCategories lista las categorías de la empresa.
func (uc *PartnerUseCase) ListCategories(companyID string, limit, offset int) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryResponse{ID: c.ID, Name: c.Name, Code: c.Code, Status: c.Status})
	}
	return resp, nil
}
