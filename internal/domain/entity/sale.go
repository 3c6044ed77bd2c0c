package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. CANCELLED es terminal; una venta COMPLETED solo puede
// pasar a CANCELLED (restaurando el stock descontado).
const (
	SaleStatusPending   = "PENDING"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Sale representa una venta. TotalAmount = sum(Quantity*UnitPrice - Discount)
// sobre las líneas; invariante 0 <= PaidAmount <= TotalAmount.
type Sale struct {
	ID              string
	CompanyID       string
	CustomerID      string
	SalespersonID   string
	Date            time.Time
	Status          string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentMethodID string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleItem línea de venta atada a un lote específico. La cantidad de la línea
// nunca supera la cantidad del lote al momento de la asignación; el asignador
// FEFO puede producir varias líneas para un mismo producto si reparte entre lotes.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	BatchID   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal // Quantity*UnitPrice - Discount
}

// IsTerminal indica si la venta ya no admite transiciones.
func (s *Sale) IsTerminal() bool {
	return s.Status == SaleStatusCancelled
}

// CanTransitionTo valida la máquina de estados de ventas:
// PENDING -> {COMPLETED, CANCELLED}; COMPLETED -> CANCELLED.
func (s *Sale) CanTransitionTo(status string) bool {
	switch s.Status {
	case SaleStatusPending:
		return status == SaleStatusCompleted || status == SaleStatusCancelled
	case SaleStatusCompleted:
		return status == SaleStatusCancelled
	default:
		return false
	}
}
