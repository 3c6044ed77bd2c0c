package dto

import "github.com/shopspring/decimal"

// SaleItemRequest línea para crear/editar una venta. BatchID lo elige el
// caller, normalmente preseleccionado vía GET /products/:id/batches/available.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	BatchID   string           `json:"batch_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // vacío = precio del lote
	Discount  decimal.Decimal  `json:"discount,omitempty"`
}

// CreateSaleRequest body para POST /api/sales. Status opcional: PENDING
// (por defecto) o COMPLETED para completar en el mismo acto.
type CreateSaleRequest struct {
	CustomerID      string            `json:"customer_id"`
	SalespersonID   string            `json:"salesperson_id,omitempty"`
	Date            string            `json:"date,omitempty"`
	Status          string            `json:"status,omitempty"`
	Items           []SaleItemRequest `json:"items"`
	PaidAmount      *decimal.Decimal  `json:"paid_amount,omitempty"`
	PaymentMethodID string            `json:"payment_method_id,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// UpdateSaleRequest body para PATCH /api/sales/:id.
type UpdateSaleRequest struct {
	Status          string            `json:"status,omitempty"`
	Items           []SaleItemRequest `json:"items,omitempty"`
	SalespersonID   *string           `json:"salesperson_id,omitempty"`
	PaidAmount      *decimal.Decimal  `json:"paid_amount,omitempty"`
	PaymentMethodID string            `json:"payment_method_id,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

// SaleItemResponse línea de venta atada a su lote.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// SaleResponse agregado completo devuelto por cada mutación.
// CommissionID referencia la comisión creada al completar (si aplicó);
// PaidCommission advierte que la cancelación dejó una comisión PAID sin
// reversar (resolución manual).
type SaleResponse struct {
	ID              string             `json:"id"`
	CustomerID      string             `json:"customer_id"`
	SalespersonID   string             `json:"salesperson_id,omitempty"`
	Date            string             `json:"date"`
	Status          string             `json:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	PaymentMethodID string             `json:"payment_method_id,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	CommissionID    string             `json:"commission_id,omitempty"`
	PaidCommission  bool               `json:"paid_commission_pending_review,omitempty"`
}
