package entity

import "time"

// Tipos de efecto de inventario contabilizado (clave de idempotencia durable).
const (
	PostingKindPurchaseReceipt  = "PURCHASE_RECEIPT"
	PostingKindSaleCompletion   = "SALE_COMPLETION"
	PostingKindSaleCancellation = "SALE_CANCELLATION"
)

// StockPosting registra que un efecto de inventario de una transacción ya fue
// aplicado. La unicidad de (TransactionID, ReferenceID, Kind) garantiza que un
// reintento de recepción o de completar una venta no duplique el efecto.
type StockPosting struct {
	ID            string
	TransactionID string // ID de la compra o venta
	ReferenceID   string // ID de la línea (recepciones) o vacío
	Kind          string
	CreatedAt     time.Time
}
