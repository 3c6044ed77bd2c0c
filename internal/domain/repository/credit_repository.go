package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// CreditRepository define el puerto para créditos de cliente.
type CreditRepository interface {
	Create(c *entity.Credit) error
	GetByID(id string) (*entity.Credit, error)
	GetForUpdate(id string) (*entity.Credit, error)
	Update(c *entity.Credit) error
	ListByCustomer(customerID string, limit, offset int) ([]*entity.Credit, error)
}
