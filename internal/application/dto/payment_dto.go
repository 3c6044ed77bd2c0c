package dto

import "github.com/shopspring/decimal"

// RecordPaymentRequest body para POST /api/payments. ParentType es
// PURCHASE, SALE o CREDIT; exactamente un padre por pago.
type RecordPaymentRequest struct {
	ParentType      string          `json:"parent_type"`
	ParentID        string          `json:"parent_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	PaymentMethodID string          `json:"payment_method_id"`
	Notes           string          `json:"notes,omitempty"`
}

// PaymentResponse pago registrado junto con el saldo actualizado del padre.
type PaymentResponse struct {
	ID               string          `json:"id"`
	ParentType       string          `json:"parent_type"`
	ParentID         string          `json:"parent_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	PaymentMethodID  string          `json:"payment_method_id"`
	ParentPaidAmount decimal.Decimal `json:"parent_paid_amount"`
	ParentTotal      decimal.Decimal `json:"parent_total_amount"`
	ParentBalance    decimal.Decimal `json:"parent_balance"`
}

// CreateCreditRequest body para POST /api/credits.
type CreateCreditRequest struct {
	CustomerID  string          `json:"customer_id"`
	Date        string          `json:"date,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
}

// CreditResponse crédito con su saldo.
type CreditResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
}
