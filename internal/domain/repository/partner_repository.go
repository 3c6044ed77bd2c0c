package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// SupplierRepository define el puerto para proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
}

// CustomerRepository define el puerto para clientes.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
}

// SalespersonRepository define el puerto para vendedores.
type SalespersonRepository interface {
	Create(s *entity.Salesperson) error
	GetByID(id string) (*entity.Salesperson, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Salesperson, error)
}

// PaymentMethodRepository define el puerto para métodos de pago.
type PaymentMethodRepository interface {
	Create(m *entity.PaymentMethod) error
	GetByID(id string) (*entity.PaymentMethod, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.PaymentMethod, error)
}

// CategoryRepository define el puerto para categorías de producto.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error)
}
