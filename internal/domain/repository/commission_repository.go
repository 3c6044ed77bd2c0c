package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// CommissionRepository define el puerto para comisiones.
type CommissionRepository interface {
	// CreateIfAbsent inserta la comisión salvo que ya exista una para la misma
	// venta (unicidad por sale_id). Devuelve false si ya existía.
	CreateIfAbsent(c *entity.Commission) (bool, error)
	GetByID(id string) (*entity.Commission, error)
	GetBySaleID(saleID string) (*entity.Commission, error)
	Update(c *entity.Commission) error
	ListByCompany(companyID, status, salespersonID string, limit, offset int) ([]*entity.Commission, error)
}

// CommissionConfigRepository define el puerto para configuraciones de comisión.
type CommissionConfigRepository interface {
	Create(cfg *entity.CommissionConfig) error
	GetByID(id string) (*entity.CommissionConfig, error)
	// ListActiveByCompany devuelve las configuraciones activas; la resolución
	// por especificidad de alcance ocurre en el dominio.
	ListActiveByCompany(companyID string) ([]*entity.CommissionConfig, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.CommissionConfig, error)
}
