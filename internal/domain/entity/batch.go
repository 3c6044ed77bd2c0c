package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de lote. EXPIRED es derivado de la fecha de vencimiento y nunca se
// persiste; los estados explícitos (RECALLED, QUARANTINED, ...) tienen
// precedencia sobre el vencimiento para la elegibilidad de asignación.
const (
	BatchStatusActive      = "ACTIVE"
	BatchStatusExpired     = "EXPIRED"
	BatchStatusRecalled    = "RECALLED"
	BatchStatusQuarantined = "QUARANTINED"
	BatchStatusDamaged     = "DAMAGED"
	BatchStatusReturned    = "RETURNED"
)

// Batch representa un lote recibido de un producto, con su propia fecha de
// vencimiento y base de costo. La cantidad nunca puede ser negativa.
// Un lote referenciado por una transacción nunca se elimina físicamente.
type Batch struct {
	ID                string
	CompanyID         string
	ProductID         string
	SupplierID        string
	BatchNumber       string // único por producto
	ManufacturingDate *time.Time
	ExpiryDate        time.Time
	Quantity          decimal.Decimal
	PurchasePrice     decimal.Decimal
	SellingPrice      decimal.Decimal
	Status            string
	RecallDate        *time.Time
	RecallReason      string
	RecallReference   string
	QuarantineDate    *time.Time
	QuarantineReason  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExpired indica si el lote venció antes del día de hoy (comparación por fecha).
func (b *Batch) IsExpired(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	expiry := time.Date(b.ExpiryDate.Year(), b.ExpiryDate.Month(), b.ExpiryDate.Day(), 0, 0, 0, 0, now.Location())
	return expiry.Before(today)
}

// EffectiveStatus devuelve el estado visible: los estados explícitos tienen
// precedencia; un lote ACTIVE vencido se reporta como EXPIRED (predicado
// calculado en lectura, no un job de fondo).
func (b *Batch) EffectiveStatus(now time.Time) string {
	if b.Status != BatchStatusActive {
		return b.Status
	}
	if b.IsExpired(now) {
		return BatchStatusExpired
	}
	return BatchStatusActive
}

// IsEligible indica si el lote puede usarse en una asignación FEFO:
// ACTIVE, no vencido y con cantidad disponible.
func (b *Batch) IsEligible(now time.Time) bool {
	return b.Status == BatchStatusActive && !b.IsExpired(now) && b.Quantity.GreaterThan(decimal.Zero)
}
