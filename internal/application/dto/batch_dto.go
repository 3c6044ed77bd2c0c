package dto

import "github.com/shopspring/decimal"

// BatchResponse representación de un lote. Status es el estado efectivo
// (EXPIRED se deriva de la fecha de vencimiento en lectura).
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	BatchNumber       string          `json:"batch_number"`
	ManufacturingDate string          `json:"manufacturing_date,omitempty"`
	ExpiryDate        string          `json:"expiry_date"`
	Quantity          decimal.Decimal `json:"quantity"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Status            string          `json:"status"`
	RecallReason      string          `json:"recall_reason,omitempty"`
	QuarantineReason  string          `json:"quarantine_reason,omitempty"`
}

// SetBatchStatusRequest body para PATCH /api/batches/:id/status.
// RECALLED y QUARANTINED exigen Reason; volver a ACTIVE limpia los metadatos.
type SetBatchStatusRequest struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// AllocationLineResponse porción asignada a un lote por el asignador FEFO.
type AllocationLineResponse struct {
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	ExpiryDate   string          `json:"expiry_date"`
	Quantity     decimal.Decimal `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// AvailabilityResponse respuesta de GET /products/:id/batches/available.
// Si quantity > 0 incluye la partición FEFO sugerida.
type AvailabilityResponse struct {
	ProductID  string                   `json:"product_id"`
	Available  decimal.Decimal          `json:"available"`
	Batches    []BatchResponse          `json:"batches"`
	Allocation []AllocationLineResponse `json:"allocation,omitempty"`
}
