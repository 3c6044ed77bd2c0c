package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// BatchRepository define el puerto para lotes. Es el único componente que
// muta cantidades de lote; los decrementos y recepciones se hacen dentro de
// transacciones con GetForUpdate (SELECT FOR UPDATE) para serializar a nivel
// de fila.
type BatchRepository interface {
	Create(b *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Batch, error)
	// GetByProductAndNumberForUpdate bloquea el lote (producto, número de lote) si existe.
	GetByProductAndNumberForUpdate(productID, batchNumber string) (*entity.Batch, error)
	Update(b *entity.Batch) error
	// ListEligible devuelve lotes con cantidad > 0, ACTIVE y no vencidos,
	// ordenados por vencimiento ascendente y luego por creación (orden FEFO).
	// Es la única lectura que usa el asignador.
	ListEligible(productID string) ([]*entity.Batch, error)
	ListByProduct(productID string) ([]*entity.Batch, error)
}
