package repository

import (
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

// PaymentRepository define el puerto para pagos.
type PaymentRepository interface {
	Create(p *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	Delete(id string) error
	// SumByParent recalcula la suma de pagos vigentes del padre (no ajusta:
	// recalcula, para evitar deriva por fallas parciales).
	SumByParent(parentType, parentID string) (decimal.Decimal, error)
	ListByParent(parentType, parentID string) ([]*entity.Payment, error)
}
