package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra. COMPLETED y CANCELLED son terminales.
const (
	PurchaseStatusPending           = "PENDING"
	PurchaseStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	PurchaseStatusCompleted         = "COMPLETED"
	PurchaseStatusCancelled         = "CANCELLED"
)

// Purchase representa una compra a proveedor. TotalAmount es la suma de los
// totales de línea; invariante 0 <= PaidAmount <= TotalAmount.
type Purchase struct {
	ID              string
	CompanyID       string
	SupplierID      string
	InvoiceNumber   string // único por empresa
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

// PurchaseItem línea de compra: al recibirse crea o incrementa el lote
// (ProductID, BatchNumber) con la cantidad y precios indicados.
type PurchaseItem struct {
	ID                string
	PurchaseID        string
	ProductID         string
	BatchNumber       string
	ExpiryDate        time.Time
	ManufacturingDate *time.Time
	Quantity          decimal.Decimal
	UnitCost          decimal.Decimal
	SellingPrice      decimal.Decimal
	TotalCost         decimal.Decimal // Quantity * UnitCost
}

// IsTerminal indica si la compra ya no admite transiciones ni edición de líneas.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusCompleted || p.Status == PurchaseStatusCancelled
}

// CanTransitionTo valida la máquina de estados de compras:
// PENDING -> {PARTIALLY_RECEIVED, COMPLETED, CANCELLED};
// PARTIALLY_RECEIVED -> {COMPLETED, CANCELLED}.
func (p *Purchase) CanTransitionTo(status string) bool {
	switch p.Status {
	case PurchaseStatusPending:
		return status == PurchaseStatusPartiallyReceived ||
			status == PurchaseStatusCompleted ||
			status == PurchaseStatusCancelled
	case PurchaseStatusPartiallyReceived:
		return status == PurchaseStatusCompleted || status == PurchaseStatusCancelled
	default:
		return false
	}
}
