package dto

import "github.com/shopspring/decimal"

// CommissionResponse comisión derivada de una venta completada.
type CommissionResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	SalespersonID string          `json:"salesperson_id"`
	SaleAmount    decimal.Decimal `json:"sale_amount"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaidDate      string          `json:"paid_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// PayCommissionRequest body para PATCH /api/commissions/:id/pay.
type PayCommissionRequest struct {
	PaidDate string `json:"paid_date,omitempty"` // YYYY-MM-DD, por defecto hoy
	Notes    string `json:"notes,omitempty"`
}

// CreateCommissionConfigRequest body para POST /api/commission-configs.
// SalespersonID y CategoryID vacíos definen la configuración global.
type CreateCommissionConfigRequest struct {
	SalespersonID string           `json:"salesperson_id,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	Type          string           `json:"type"` // PERCENTAGE, FIXED, TIERED
	Rate          decimal.Decimal  `json:"rate"`
	MinSaleAmount *decimal.Decimal `json:"min_sale_amount,omitempty"`
	MaxCommission *decimal.Decimal `json:"max_commission,omitempty"`
}

// CommissionConfigResponse configuración de comisión.
type CommissionConfigResponse struct {
	ID            string           `json:"id"`
	SalespersonID string           `json:"salesperson_id,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	Type          string           `json:"type"`
	Rate          decimal.Decimal  `json:"rate"`
	MinSaleAmount *decimal.Decimal `json:"min_sale_amount,omitempty"`
	MaxCommission *decimal.Decimal `json:"max_commission,omitempty"`
	Active        bool             `json:"active"`
}
