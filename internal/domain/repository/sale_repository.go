package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// SaleRepository define el puerto para ventas y sus líneas.
type SaleRepository interface {
	Create(s *entity.Sale, items []*entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera para transiciones de estado y pagos.
	GetForUpdate(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	Update(s *entity.Sale) error
	// ReplaceItems reemplaza las líneas de una venta PENDING.
	ReplaceItems(saleID string, items []*entity.SaleItem) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error)
}
