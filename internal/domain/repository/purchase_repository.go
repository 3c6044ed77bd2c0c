package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// PurchaseRepository define el puerto para compras y sus líneas.
type PurchaseRepository interface {
	Create(p *entity.Purchase, items []*entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera para transiciones de estado y pagos.
	GetForUpdate(id string) (*entity.Purchase, error)
	GetByInvoiceNumber(companyID, invoiceNumber string) (*entity.Purchase, error)
	GetItems(purchaseID string) ([]*entity.PurchaseItem, error)
	Update(p *entity.Purchase) error
	// ReplaceItems reemplaza las líneas de una compra no terminal.
	ReplaceItems(purchaseID string, items []*entity.PurchaseItem) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Purchase, error)
}
