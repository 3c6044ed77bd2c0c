package dto

import "github.com/shopspring/decimal"

// PurchaseItemRequest línea para crear/editar una compra.
type PurchaseItemRequest struct {
	ID                string           `json:"id,omitempty"` // vacío en alta
	ProductID         string           `json:"product_id"`
	BatchNumber       string           `json:"batch_number"`
	ExpiryDate        string           `json:"expiry_date"` // YYYY-MM-DD
	ManufacturingDate string           `json:"manufacturing_date,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	UnitCost          decimal.Decimal  `json:"unit_cost"`
	SellingPrice      *decimal.Decimal `json:"selling_price,omitempty"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID      string                `json:"supplier_id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Date            string                `json:"date,omitempty"`
	Items           []PurchaseItemRequest `json:"items"`
	PaidAmount      *decimal.Decimal      `json:"paid_amount,omitempty"`
	PaymentMethodID string                `json:"payment_method_id,omitempty"`
	Notes           string                `json:"notes,omitempty"`
}

// UpdatePurchaseRequest body para PATCH /api/purchases/:id. Todos los campos
// son opcionales; Status dispara la transición de la máquina de estados.
// ReceivedItemIDs acota una recepción parcial a un subconjunto de líneas.
type UpdatePurchaseRequest struct {
	Status          string                `json:"status,omitempty"`
	ReceivedItemIDs []string              `json:"received_item_ids,omitempty"`
	Items           []PurchaseItemRequest `json:"items,omitempty"`
	PaidAmount      *decimal.Decimal      `json:"paid_amount,omitempty"`
	PaymentMethodID string                `json:"payment_method_id,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
}

// PurchaseItemResponse línea de compra con totales calculados.
type PurchaseItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	BatchNumber  string          `json:"batch_number"`
	ExpiryDate   string          `json:"expiry_date"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Received     bool            `json:"received"`
}

// PurchaseResponse agregado completo devuelto por cada mutación.
type PurchaseResponse struct {
	ID              string                 `json:"id"`
	SupplierID      string                 `json:"supplier_id"`
	InvoiceNumber   string                 `json:"invoice_number"`
	Date            string                 `json:"date"`
	Status          string                 `json:"status"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	PaymentMethodID string                 `json:"payment_method_id,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	Items           []PurchaseItemResponse `json:"items"`
}
