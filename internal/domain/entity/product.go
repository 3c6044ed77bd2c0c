package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU de la farmacia. El stock real vive en
// los lotes (Batch); aquí solo el precio de venta por defecto y la categoría
// (dimensión de alcance para comisiones).
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	CategoryID  string
	Price       decimal.Decimal // precio de venta por defecto
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
