package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// StockPostingRepository define el puerto para claves de idempotencia de
// efectos de inventario (recepción de compra, completar/cancelar venta).
type StockPostingRepository interface {
	// TryInsert registra la clave; devuelve false si el efecto ya estaba
	// contabilizado (reintento), sin error.
	TryInsert(p *entity.StockPosting) (bool, error)
	Exists(transactionID, referenceID, kind string) (bool, error)
}
