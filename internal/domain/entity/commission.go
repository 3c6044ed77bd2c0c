package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una comisión.
const (
	CommissionStatusPending   = "PENDING"
	CommissionStatusPaid      = "PAID"
	CommissionStatusCancelled = "CANCELLED"
)

// Tipos de configuración de comisión.
const (
	CommissionTypePercentage = "PERCENTAGE"
	CommissionTypeFixed      = "FIXED"
	CommissionTypeTiered     = "TIERED"
)

// Commission registro de comisión derivado de una venta completada.
// Se crea exactamente una vez por venta (idempotente por SaleID); si la venta
// se cancela, una comisión no pagada pasa a CANCELLED. Una comisión PAID no se
// reversa automáticamente: queda reportada para resolución manual.
// SaleAmount y Rate son snapshots al momento del cálculo.
type Commission struct {
	ID            string
	CompanyID     string
	SaleID        string
	SalespersonID string
	SaleAmount    decimal.Decimal
	Rate          decimal.Decimal
	Amount        decimal.Decimal
	Status        string
	PaidDate      *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CommissionConfig regla de comisión con alcance opcional por vendedor y/o
// categoría. La resolución elige el alcance más específico:
// vendedor+categoría > vendedor > categoría > global.
type CommissionConfig struct {
	ID            string
	CompanyID     string
	SalespersonID string // vacío = cualquier vendedor
	CategoryID    string // vacío = cualquier categoría
	Type          string
	Rate          decimal.Decimal
	MinSaleAmount *decimal.Decimal // umbral mínimo de venta para aplicar
	MaxCommission *decimal.Decimal // tope del monto de comisión
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
