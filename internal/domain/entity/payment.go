package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de padre de un pago: exactamente uno por pago.
const (
	PaymentParentPurchase = "PURCHASE"
	PaymentParentSale     = "SALE"
	PaymentParentCredit   = "CREDIT"
)

// Payment representa un abono contra una compra, una venta o un crédito.
// La suma de pagos de un padre nunca supera su TotalAmount; PaidAmount del
// padre es la caché autoritativa y se recalcula en cada alta/baja de pago.
type Payment struct {
	ID              string
	CompanyID       string
	ParentType      string
	ParentID        string
	Amount          decimal.Decimal
	Date            time.Time
	ReferenceNumber string
	PaymentMethodID string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}
