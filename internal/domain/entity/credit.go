package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un crédito de cliente. PAID se deriva al recalcular pagos.
const (
	CreditStatusOpen      = "OPEN"
	CreditStatusPaid      = "PAID"
	CreditStatusCancelled = "CANCELLED"
)

// Credit representa un crédito independiente otorgado a un cliente
// (fiado), pagadero en abonos vía Payment con ParentType CREDIT.
type Credit struct {
	ID          string
	CompanyID   string
	CustomerID  string
	Date        time.Time
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsFullyPaid indica si el crédito quedó saldado.
func (c *Credit) IsFullyPaid() bool {
	return c.PaidAmount.GreaterThanOrEqual(c.TotalAmount)
}
