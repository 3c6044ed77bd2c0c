package entity

import "time"

// Tipos de método de pago.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCredit   = "CREDIT"
)

// PaymentMethod representa un método de pago configurado por la empresa.
type PaymentMethod struct {
	ID        string
	CompanyID string
	Name      string
	Kind      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
